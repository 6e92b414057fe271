// Package gemini implements the generation.FeedbackGenerator interface
// using Google's Gemini API.
package gemini
