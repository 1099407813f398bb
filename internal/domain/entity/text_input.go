package entity

// TextInput is the normalized shape of a prediction request: SingleText or BatchText
type TextInput interface {
	Texts() []string
	isTextInput()
}

// SingleText is a request carrying one text
type SingleText string

// Texts returns the text as a one-element list
func (s SingleText) Texts() []string {
	return []string{string(s)}
}

func (SingleText) isTextInput() {}

// BatchText is a request carrying an ordered list of texts
type BatchText []string

// Texts returns the list unchanged
func (b BatchText) Texts() []string {
	return []string(b)
}

func (BatchText) isTextInput() {}
