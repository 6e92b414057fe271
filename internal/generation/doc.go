// Package generation defines the interface for producing personalized
// assessment feedback. It serves as a boundary between the application
// core and external AI/LLM services.
package generation
