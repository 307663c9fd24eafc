// SPDX-License-Identifier: MPL-2.0

// Package override turns a parsed description into per-item override lists
// and the set of newly referenced models.
package override

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/resc/resc/pkg/description"
	"github.com/resc/resc/pkg/modeldata"
	"github.com/resc/resc/pkg/resloc"

	"github.com/charmbracelet/log"
)

// Placeholder is replaced by the symbolic key in every target model name.
const Placeholder = "$1"

type (
	// Override is one custom model data predicate and the model it selects.
	Override struct {
		// Key is the symbolic key the identifier was resolved from.
		Key             string
		CustomModelData modeldata.ID
		// Model is the target with the placeholder substituted. It is kept as
		// written; the stub emitter decides whether it names a usable path.
		Model string
	}

	// Item is a base item and its overrides, sorted by CustomModelData.
	Item struct {
		// Name is the item as written in the description.
		Name      string
		Location  resloc.Location
		Overrides []Override
	}

	// Plan is the result of Build.
	Plan struct {
		Items []Item
		// NewModels lists each distinct model reference once, in order of
		// first appearance.
		NewModels []string
		// Constants is the resolver after the last constants entry.
		Constants *modeldata.Resolver
	}
)

// Build walks desc in document order. Constants entries extend the resolver
// for the entries that follow them.
func Build(desc *description.Description, logger *log.Logger) (*Plan, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	resolver := &modeldata.Resolver{}
	plan := &Plan{}
	seenModels := map[string]bool{}

	for _, entry := range desc.Entries {
		if entry.IsConstants() {
			for _, p := range entry.Pairs {
				logger.Info("Defining constant", "name", p.Key, "value", p.Target)
			}
			next, err := resolver.With(entry.Constants())
			if err != nil {
				return nil, &description.MalformedError{Source: desc.Source, Path: entry.Name, Err: err}
			}
			resolver = next
			continue
		}

		logger.Info("Parsing", "item", entry.Name)
		loc, err := resloc.Parse(entry.Name)
		if err != nil {
			return nil, &description.MalformedError{Source: desc.Source, Path: entry.Name, Err: err}
		}

		item := Item{Name: entry.Name, Location: loc, Overrides: make([]Override, 0, len(entry.Pairs))}
		for _, p := range entry.Pairs {
			model := strings.ReplaceAll(p.Target, Placeholder, p.Key)
			if !seenModels[model] {
				seenModels[model] = true
				plan.NewModels = append(plan.NewModels, model)
			}

			o := Override{Key: p.Key, CustomModelData: resolver.Resolve(p.Key), Model: model}
			logger.Debug("Resolved", "item", entry.Name, "key", p.Key, "custom_model_data", o.CustomModelData, "model", model)
			item.Overrides = append(item.Overrides, o)
		}

		SortOverrides(item.Overrides)
		plan.Items = append(plan.Items, item)
	}

	plan.Constants = resolver
	return plan, nil
}

// SortOverrides orders overrides by CustomModelData, ascending. Ties keep
// their description order.
func SortOverrides(overrides []Override) {
	slices.SortStableFunc(overrides, func(a, b Override) int {
		return a.CustomModelData.Cmp(b.CustomModelData)
	})
}

// String renders the override for log lines.
func (o Override) String() string {
	return fmt.Sprintf("%s -> %s", o.CustomModelData, o.Model)
}
