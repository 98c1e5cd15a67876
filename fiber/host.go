package fiber

// Handle is a host instance owned by exactly one node.
type Handle any

// Host applies mutations to the external tree. Errors are not retried: a
// failing call aborts the commit and poisons the root.
type Host interface {
	CreateElement(typ string) (Handle, error)
	CreateText(text string) (Handle, error)
	// SetProperty removes the property when value is nil.
	SetProperty(h Handle, key string, value any) error
	// InsertBefore appends when before is nil. Inserting a child that is
	// already attached moves it.
	InsertBefore(parent, child, before Handle) error
	AppendChild(parent, child Handle) error
	RemoveChild(parent, child Handle) error
	SetText(h Handle, text string) error
}
