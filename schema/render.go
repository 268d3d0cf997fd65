package schema

import (
	"fmt"
	"strings"
)

// Render produces the canonical display string for a type descriptor. The
// grid header and the tests both depend on the exact shape, keep it stable.
func Render(desc TypeDescriptor) string {
	switch info := desc.Info.(type) {

	case DecimalInfo:
		return fmt.Sprintf("DECIMAL(%d,%d)", info.Width, info.Scale)

	case ListInfo:
		if desc.Id == MapType {
			return renderMap(info)
		}
		return Render(info.Child) + "[]"

	case ArrayInfo:
		return fmt.Sprintf("%s[%d]", Render(info.Child), info.Size)

	case StructInfo:
		head := "STRUCT"
		if desc.Id == UnionType {
			head = "UNION"
		}

		var b strings.Builder
		b.WriteString(head)
		b.WriteString("(")
		for i, f := range info.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			b.WriteString(Render(f.Type))
		}
		b.WriteString(")")
		return b.String()

	case EnumInfo:
		if desc.Alias != "" {
			return desc.Alias
		}
		var b strings.Builder
		b.WriteString("ENUM(")
		for i, v := range info.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("'")
			b.WriteString(v)
			b.WriteString("'")
		}
		b.WriteString(")")
		return b.String()

	default:
		if desc.Alias != "" {
			return desc.Alias
		}
		if name := desc.Id.String(); name != "" {
			return name
		}
		return fmt.Sprintf("UNKNOWN(%d)", desc.Id)
	}
}

func renderMap(info ListInfo) string {
	kv, isOk := info.Child.Info.(StructInfo)
	if !isOk || len(kv.Fields) != 2 {
		return "MAP"
	}
	return fmt.Sprintf("MAP(%s, %s)", Render(kv.Fields[0].Type), Render(kv.Fields[1].Type))
}
