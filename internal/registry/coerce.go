package registry

import (
	"fmt"

	"github.com/krema-build/krema/internal/errors"
)

// Coerce validates and converts req's raw JSON-decoded args against a
// command's declared Params, filling in defaults for absent optional
// parameters and rejecting missing required ones or type mismatches with a
// kind=BadRequest error (spec §4.4 step 3).
func Coerce(params []Param, raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for _, p := range params {
		v, present := raw[p.Name]
		if !present {
			if p.Required {
				return nil, errors.E(errors.BadRequest, "missing required argument: "+p.Name)
			}
			out[p.Name] = p.Default
			continue
		}
		converted, err := coerceOne(p, v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = converted
	}
	return out, nil
}

func coerceOne(p Param, v any) (any, error) {
	switch p.Type {
	case TypeAny:
		return v, nil
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, badType(p.Name, "string", v)
		}
		return s, nil
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		default:
			return nil, badType(p.Name, "number", v)
		}
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, badType(p.Name, "bool", v)
		}
		return b, nil
	case TypeObject:
		o, ok := v.(map[string]any)
		if !ok {
			return nil, badType(p.Name, "object", v)
		}
		return o, nil
	case TypeArray:
		a, ok := v.([]any)
		if !ok {
			return nil, badType(p.Name, "array", v)
		}
		return a, nil
	default:
		return nil, errors.E(errors.BadRequest, "unknown parameter type for "+p.Name)
	}
}

func badType(name, want string, got any) error {
	return errors.E(errors.BadRequest, fmt.Sprintf("argument %q: expected %s, got %T", name, want, got))
}
