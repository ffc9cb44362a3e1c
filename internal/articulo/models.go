package articulo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Articulo is a supermarket item keyed by Codigo. Codigo is the lookup key but
// uniqueness is not enforced. Fields beyond the four known ones are kept in
// Extra and stored inline in the same document.
type Articulo struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty"`
	Codigo    int64                  `bson:"codigo"`
	Nombre    string                 `bson:"nombre"`
	Categoria string                 `bson:"categoria"`
	Precio    float64                `bson:"precio"`
	Extra     map[string]interface{} `bson:",inline"`
}

var knownFields = map[string]bool{"_id": true, "codigo": true, "nombre": true, "categoria": true, "precio": true}

// Clone returns a deep-enough copy for in-memory storage (Extra map is copied).
func (a *Articulo) Clone() *Articulo {
	c := *a
	if a.Extra != nil {
		c.Extra = make(map[string]interface{}, len(a.Extra))
		for k, v := range a.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// MarshalJSON flattens Extra next to the known fields. _id is only present for
// documents read back from the store.
func (a Articulo) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(a.Extra)+5)
	for k, v := range a.Extra {
		if knownFields[k] {
			continue
		}
		out[k] = plain(v)
	}
	if !a.ID.IsZero() {
		out["_id"] = a.ID.Hex()
	}
	out["codigo"] = a.Codigo
	out["nombre"] = a.Nombre
	out["categoria"] = a.Categoria
	out["precio"] = a.Precio
	return json.Marshal(out)
}

// UnmarshalJSON accepts any JSON object. codigo must be an integer, precio a
// number, nombre and categoria strings; everything else lands in Extra.
// A caller-supplied _id is ignored, the store assigns its own.
func (a *Articulo) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("articulo: expected a JSON object")
	}
	*a = Articulo{}
	for k, v := range raw {
		if isNull(v) {
			continue
		}
		switch k {
		case "_id":
		case "codigo":
			n, err := number(v)
			if err != nil {
				return fmt.Errorf("articulo: codigo: %w", err)
			}
			if a.Codigo, err = n.Int64(); err != nil {
				return fmt.Errorf("articulo: codigo must be an integer: %w", err)
			}
		case "precio":
			n, err := number(v)
			if err != nil {
				return fmt.Errorf("articulo: precio: %w", err)
			}
			if a.Precio, err = n.Float64(); err != nil {
				return fmt.Errorf("articulo: precio: %w", err)
			}
		case "nombre":
			if err := json.Unmarshal(v, &a.Nombre); err != nil {
				return fmt.Errorf("articulo: nombre: %w", err)
			}
		case "categoria":
			if err := json.Unmarshal(v, &a.Categoria); err != nil {
				return fmt.Errorf("articulo: categoria: %w", err)
			}
		default:
			var x interface{}
			dec := json.NewDecoder(bytes.NewReader(v))
			dec.UseNumber()
			if err := dec.Decode(&x); err != nil {
				return fmt.Errorf("articulo: %s: %w", k, err)
			}
			if a.Extra == nil {
				a.Extra = map[string]interface{}{}
			}
			a.Extra[k] = numberValue(x)
		}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// number decodes a bare JSON number; quoted numbers are rejected.
func number(v json.RawMessage) (json.Number, error) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] == '"' {
		return "", fmt.Errorf("expected a number, got %s", trimmed)
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", err
	}
	return n, nil
}

// numberValue converts json.Number leaves into int64 or float64 so BSON
// stores them as numbers rather than strings.
func numberValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]interface{}:
		for k, e := range t {
			t[k] = numberValue(e)
		}
		return t
	case []interface{}:
		for i, e := range t {
			t[i] = numberValue(e)
		}
		return t
	}
	return v
}

// plain converts BSON container types decoded into interface{} values back
// into maps and slices that encode as ordinary JSON.
func plain(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case bson.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	}
	return v
}

// SearchPattern turns caller text into a regular expression matching it as a
// literal substring. Metacharacters are escaped.
func SearchPattern(text string) string {
	return regexp.QuoteMeta(text)
}

// Matcher compiles the case-insensitive literal substring matcher for text.
// Text that is not valid UTF-8 cannot be compiled and returns an error.
func Matcher(text string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + SearchPattern(text))
	if err != nil {
		return nil, fmt.Errorf("articulo: search text: %w", err)
	}
	return re, nil
}
