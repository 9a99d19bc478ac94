package core

// Edit is a single textual replacement: delete DeletedLength bytes
// starting at Position, insert InsertedText in their place (§4.7).
type Edit struct {
	Position      int
	DeletedLength int
	InsertedText  []byte
}

// Apply returns src with this edit applied.
func (e Edit) Apply(src []byte) []byte {
	out := make([]byte, 0, len(src)-e.DeletedLength+len(e.InsertedText))
	out = append(out, src[:e.Position]...)
	out = append(out, e.InsertedText...)
	out = append(out, src[e.Position+e.DeletedLength:]...)
	return out
}

// Diff is a rule's fix output for one match: a primary edit plus any
// distinct alternative fixes, each optionally titled (§4.7's
// "Diff::multiple").
type Diff struct {
	Primary      Edit
	PrimaryTitle string
	Alternatives []Diff
}
