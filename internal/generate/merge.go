// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"context"
	"fmt"

	"github.com/resc/resc/internal/archive"
	"github.com/resc/resc/pkg/model"
	"github.com/resc/resc/pkg/override"
)

// Merge reads the vanilla model of every planned item and appends the item's
// overrides to it. Items naming the same location ("stick" and
// "minecraft:stick") share one document, in plan order. The archive is
// closed before Merge returns.
func (g *Generator) Merge(ctx context.Context, archivePath string, plan *override.Plan, pretty bool) (files []File, err error) {
	a, err := archive.Open(archivePath)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Opened archive", "path", a.Path(), "kind", a.Kind())
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", closeErr)
		}
	}()

	type staged struct {
		path string
		doc  *model.Document
	}
	var order []*staged
	byPath := map[string]*staged{}

	g.logger.Infof("Fetching %d vanilla models from JAR...", len(plan.Items))
	for _, item := range plan.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := item.Location.ItemModelPath()
		s, ok := byPath[p]
		if !ok {
			g.logger.Info("Reading", "path", p)
			data, err := a.Read(p)
			if err != nil {
				return nil, err
			}
			doc, err := model.Parse(data, p)
			if err != nil {
				return nil, err
			}
			s = &staged{path: p, doc: doc}
			byPath[p] = s
			order = append(order, s)
		}
		if err := s.doc.AppendOverrides(item.Overrides); err != nil {
			return nil, fmt.Errorf("failed to add overrides to %s: %w", p, err)
		}
		g.logger.Debug("Merged", "path", p, "item", item.Name, "overrides", s.doc.Overrides())
	}

	files = make([]File, 0, len(order))
	for _, s := range order {
		data, err := s.doc.Marshal(pretty)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", s.path, err)
		}
		files = append(files, File{Path: s.path, Kind: FileModel, Data: data})
	}
	return files, nil
}
