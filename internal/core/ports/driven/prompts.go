package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// Templates use named placeholders written as {name}.
const (
	// PromptTriage classifies a user message into a JSON triage record.
	// Placeholders: {corpus}, {message}.
	PromptTriage = "triage"

	// PromptAnswerSystem is the system role of the answer prompt.
	// Placeholders: {corpus}.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerHuman is the human role of the answer prompt.
	// Placeholders: {corpus}, {question}, {context}.
	PromptAnswerHuman = "answer_human"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
