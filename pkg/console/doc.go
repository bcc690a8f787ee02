// Package console is an interactive terminal surface for a studio session.
// Prompts go through a PromptDriver so the menu loop can be scripted in tests;
// the default driver is backed by survey.
package console
