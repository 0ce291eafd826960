package reflect

import (
	"fmt"
	"reflect"
	"strings"
)

// Field describes one injectable struct field after tag parsing.
type Field struct {
	Index    int
	Name     string
	Type     reflect.Type
	Named    string
	Optional bool
}

// StructFields returns the exported, non-skipped fields of a struct type,
// with the tag under tagKey parsed as `name[,optional]`. A tag of "-" skips
// the field entirely.
func StructFields(t reflect.Type, tagKey string) ([]Field, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct type, got %s", TypeName(t))
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get(tagKey)
		if tag == "-" {
			continue
		}

		f := Field{
			Index: i,
			Name:  sf.Name,
			Type:  sf.Type,
		}

		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "optional" && len(parts) == 1 {
				f.Optional = true
			} else {
				f.Named = parts[0]
				for _, p := range parts[1:] {
					if strings.TrimSpace(p) == "optional" {
						f.Optional = true
					}
				}
			}
		}

		fields = append(fields, f)
	}

	return fields, nil
}
