// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError tells the user what resc was doing when something went
	// wrong, on which file, and what to try next.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("read description").
	//		WithResource("models.yaml").
	//		WithSuggestion("Check the YAML syntax").
	//		Wrap(originalErr).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "read description".
		Operation string
		// Resource is the file or directory involved, if any.
		Resource    string
		Suggestions []string
		Cause       error
	}

	// ErrorContext builds an ActionableError step by step.
	ErrorContext struct {
		ae ActionableError
	}
)

// NewErrorContext starts an empty ErrorContext.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithContext is the short form of the builder for errors without
// suggestions. A nil err yields nil.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by one bullet per suggestion. In
// verbose mode the cause chain is listed too, one wrapping layer per line,
// each line holding only the text that layer added.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, s := range e.Suggestions {
			msg.WriteString("\n  • " + s)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		for i, layer := range chainLayers(e.Cause) {
			fmt.Fprintf(&msg, "\n  %d. %s", i+1, layer)
		}
	}
	return msg.String()
}

// chainLayers walks err through errors.Unwrap. A "%w" wrapper repeats its
// cause as a ": <cause>" suffix, which is trimmed so every layer reads once.
func chainLayers(err error) []string {
	var layers []string
	for err != nil {
		text := err.Error()
		next := errors.Unwrap(err)
		if next != nil {
			if trimmed, ok := strings.CutSuffix(text, ": "+next.Error()); ok {
				text = trimmed
			}
		}
		layers = append(layers, text)
		err = next
	}
	return layers
}

func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.ae.Operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.ae.Resource = res
	return c
}

// WithSuggestion appends hints, shown in the order they were added.
func (c *ErrorContext) WithSuggestion(sugs ...string) *ErrorContext {
	c.ae.Suggestions = append(c.ae.Suggestions, sugs...)
	return c
}

func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.ae.Cause = err
	return c
}

// Build returns a copy of the error built so far, or nil while no operation
// has been set.
func (c *ErrorContext) Build() *ActionableError {
	if c.ae.Operation == "" {
		return nil
	}
	ae := c.ae
	return &ae
}

// BuildError is Build typed as error, so that an unset operation yields a
// true nil interface.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
