package container

import "reflect"

// ContextualBuilder implements the fluent, consumer scoped alias API.
//
//	services.When(container.TypeOf[*PhotoController]()).
//	    Needs("storage").
//	    Give(container.TypeOf[*S3Storage]())
type ContextualBuilder struct {
	services *ServiceCollection
	consumer reflect.Type
	param    string
}

// When starts a contextual alias for the consumer type. consumer is matched
// against both the registration key and the implementation type.
func (s *ServiceCollection) When(consumer reflect.Type) *ContextualBuilder {
	return &ContextualBuilder{services: s, consumer: consumer}
}

// Needs names the constructor parameter being overridden.
func (b *ContextualBuilder) Needs(param string) *ContextualBuilder {
	b.param = param
	return b
}

// Give sets the key that the parameter resolves to. It wins over exact and
// general aliases and over the parameter's declared type.
func (b *ContextualBuilder) Give(key reflect.Type) error {
	if b.consumer == nil || b.param == "" || key == nil {
		return &InvalidRegistrationError{Key: b.consumer, Reason: "contextual alias needs a consumer, a parameter and a key"}
	}

	s := b.services
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrCollectionClosed
	}
	if err := s.aliases.give(b.consumer, b.param, key); err != nil {
		return err
	}
	s.logger.Debug("contextual alias defined",
		"consumer", typeName(b.consumer),
		"param", b.param,
		"key", typeName(key),
	)
	return nil
}
