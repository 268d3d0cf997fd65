package schema

// ResultColumn pairs a column name with its decoded type, in result order.
type ResultColumn struct {
	Name string
	Type TypeDescriptor
}

func (c ResultColumn) TypeLabel() string {
	return Render(c.Type)
}
