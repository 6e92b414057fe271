// Package domain defines the core business entities and errors for
// tracking a learner's progress through a language learning path.
package domain
