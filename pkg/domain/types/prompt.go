package types

// PromptKey is the stable key of a canonical prompt text.
type PromptKey string

func (x PromptKey) String() string {
	return string(x)
}

type PromptKind string

const (
	PromptKindFixed PromptKind = "fixed"
	PromptKindPool  PromptKind = "pool"
)

func (x PromptKind) String() string {
	return string(x)
}
