// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Query Path
//
//   - TextGenerator: Prompt or chat completion bound to fixed options
//   - PassageIndex: Top-k passage search for a question
//   - LLMService: The provider client TextGenerators are bound to
//
// # Ingestion Path
//
//   - DocumentLoader: Extracts page text from corpus files
//   - TextSplitter: Cuts page text into chunks
//   - EmbeddingService: Generates vector embeddings
//   - PassageStore: Persists documents, chunks and their vectors
//
// # Configuration
//
//   - ConfigStore: Application configuration
//   - PromptStore: Editable prompt templates
//   - AIConfigValidator: Provider connectivity checks
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
