package container

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ── Aliases ───────────────────────────────────────────────────────────────────

// aliasIndex holds the three alias namespaces.
//
// A name lives in exactly one of exact and general; contextual aliases are
// keyed by consumer and parameter, and win over both.
type aliasIndex struct {
	// parameter name → key, for every consumer
	exact map[string]reflect.Type

	// name → key, for untyped parameters and string lookups
	general map[string]reflect.Type

	// consumer → parameter name → key
	contextual map[reflect.Type]map[string]reflect.Type
}

func newAliasIndex() *aliasIndex {
	return &aliasIndex{
		exact:      make(map[string]reflect.Type),
		general:    make(map[string]reflect.Type),
		contextual: make(map[reflect.Type]map[string]reflect.Type),
	}
}

// SetAlias makes every constructor parameter called name resolve to key,
// whatever its declared type. The name cannot also be a general alias.
//
//	services.SetAlias("example", container.TypeOf[*CatsController]())
func (s *ServiceCollection) SetAlias(name string, key reflect.Type) error {
	return s.defineAlias(name, key, true)
}

// AddAlias adds a general alias: untyped parameters called name resolve to
// key, and Provider.Get(name) returns it. The name cannot also be an exact
// alias.
func (s *ServiceCollection) AddAlias(name string, key reflect.Type) error {
	return s.defineAlias(name, key, false)
}

func (s *ServiceCollection) defineAlias(name string, key reflect.Type, exact bool) error {
	if name == "" || key == nil {
		return &InvalidRegistrationError{Key: key, Reason: "alias needs a name and a key"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrCollectionClosed
	}
	_, isExact := s.aliases.exact[name]
	_, isGeneral := s.aliases.general[name]
	if isExact || isGeneral {
		return &AliasAlreadyDefinedError{Name: name}
	}

	if exact {
		s.aliases.exact[name] = key
	} else {
		s.aliases.general[name] = key
	}
	s.logger.Debug("alias defined", "name", name, "key", typeName(key), "exact", exact)
	return nil
}

func (a *aliasIndex) give(consumer reflect.Type, param string, key reflect.Type) error {
	params, ok := a.contextual[consumer]
	if !ok {
		params = make(map[string]reflect.Type)
		a.contextual[consumer] = params
	}
	if _, exists := params[param]; exists {
		return &AliasAlreadyDefinedError{Name: typeName(consumer) + "." + param}
	}
	params[param] = key
	return nil
}

// exactFor returns the alias that overrides parameter param of consumer.
func (a *aliasIndex) exactFor(consumer *Registration, param string) (reflect.Type, bool) {
	if param == "" {
		return nil, false
	}
	for _, t := range []reflect.Type{consumer.Key, consumer.produces} {
		if key, ok := a.contextual[t][param]; ok {
			return key, true
		}
	}
	key, ok := a.exact[param]
	return key, ok
}

// validate fails when an alias targets a key that is not registered.
func (a *aliasIndex) validate(registrations map[reflect.Type]*Registration) error {
	check := func(name string, key reflect.Type) error {
		if _, ok := registrations[key]; !ok {
			return &InvalidRegistrationError{Key: key, Reason: "alias [" + name + "] targets a service that is not registered"}
		}
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(a.exact)) {
		if err := check(name, a.exact[name]); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(a.general)) {
		if err := check(name, a.general[name]); err != nil {
			return err
		}
	}
	consumers := slices.SortedFunc(maps.Keys(a.contextual), func(x, y reflect.Type) int {
		return strings.Compare(typeName(x), typeName(y))
	})
	for _, consumer := range consumers {
		params := a.contextual[consumer]
		for _, name := range slices.Sorted(maps.Keys(params)) {
			if err := check(typeName(consumer)+"."+name, params[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *aliasIndex) snapshot() *aliasIndex {
	c := &aliasIndex{
		exact:      maps.Clone(a.exact),
		general:    maps.Clone(a.general),
		contextual: make(map[reflect.Type]map[string]reflect.Type, len(a.contextual)),
	}
	for consumer, params := range a.contextual {
		c.contextual[consumer] = maps.Clone(params)
	}
	return c
}

// ── Names ─────────────────────────────────────────────────────────────────────

// nameIndex answers string lookups: general aliases first, then the names
// every key gets automatically, then the names derived from interface style
// type names (ICatsRepository also answers to cats_repository).
type nameIndex struct {
	general map[string]reflect.Type
	primary map[string][]reflect.Type
	derived map[string][]reflect.Type
}

func newNameIndex(order []reflect.Type, general map[string]reflect.Type) *nameIndex {
	idx := &nameIndex{
		general: maps.Clone(general),
		primary: make(map[string][]reflect.Type),
		derived: make(map[string][]reflect.Type),
	}
	for _, key := range order {
		base := baseName(key)
		if base == "" {
			continue
		}
		addName(idx.primary, base, key)
		addName(idx.primary, StandardParamName(base), key)
		if isInterfaceName(base) {
			addName(idx.derived, base[1:], key)
			addName(idx.derived, StandardParamName(base[1:]), key)
		}
	}
	return idx
}

func addName(m map[string][]reflect.Type, name string, key reflect.Type) {
	if !slices.Contains(m[name], key) {
		m[name] = append(m[name], key)
	}
}

// lookup returns the key for name, nil when nothing matches.
func (n *nameIndex) lookup(name string) (reflect.Type, error) {
	candidates := []string{name}
	if std := StandardParamName(name); std != name {
		candidates = append(candidates, std)
	}

	for _, c := range candidates {
		if key, ok := n.general[c]; ok {
			return key, nil
		}
	}
	for _, tier := range []map[string][]reflect.Type{n.primary, n.derived} {
		for _, c := range candidates {
			switch keys := tier[c]; len(keys) {
			case 0:
			case 1:
				return keys[0], nil
			default:
				return nil, &AmbiguousAliasError{Name: name, Candidates: slices.Clone(keys)}
			}
		}
	}
	return nil, nil
}
