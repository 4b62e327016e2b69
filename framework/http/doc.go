// Package http provides the request and response helpers used by
// container resolved controllers.
//
// # Request
//
// Request is a Scoped service: the routing scope middleware seeds the
// current *http.Request and the container wraps it, so a controller can
// simply declare the field.
//
//	type CatsController struct {
//	    Request *gohttp.Request
//	}
//
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	err := c.Request.Bind(&payload) // JSON, urlencoded or multipart body
//	id := c.Request.RouteParam("id")
//	page := c.Request.Query("page", "1")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(data)           // 200 {"data": ...}
//	res.Created(data)           // 201 {"data": ...}
//	res.NoContent()             // 204
//	res.Error(400, "bad input") // {"message": "bad input"}
//	res.NotFound()              // 404 {"message": "Not found."}
package http
