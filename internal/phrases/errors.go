package phrases

// GameError is a custom error type for phrase pool errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

const (
	ErrPhrasePoolExhausted GameError = "phrase pool exhausted"
	ErrNilCatalog          GameError = "catalog cannot be nil"
	ErrNilRoller           GameError = "roller cannot be nil"
)
