// Package validation checks flat request input against pipe separated
// rule strings.
//
//	v := validation.Make(map[string]string{"name": input.Name}, validation.Rules{
//	    "name": "required|max:50",
//	})
//	if v.Fails() {
//	    gohttp.NewResponse(w).ValidationError(v.Errors())
//	}
//
// Rules run left to right and stop at the first failure of a field:
//
//	required          non blank
//	nullable          an empty value skips the remaining rules
//	numeric, integer  parses as float64 / int
//	email             RFC 5322 address
//	min:n, max:n      rune count bounds
//	between:a,b       rune count in [a, b]
//	in:a,b,c          one of the listed values
//	alpha_dash        letters, digits, dashes and underscores
//	same:other        equals the other field
//
// An unknown rule name is a programming error and makes Make panic.
package validation
