// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"fmt"
	"io/fs"

	"github.com/resc/resc/pkg/description"
	"github.com/resc/resc/pkg/model"
	"github.com/resc/resc/pkg/override"
	"github.com/resc/resc/pkg/resloc"
)

// Stubs renders one stub model per new model reference. References are used
// as written; only one whose path would leave the resource pack is an error.
// A stub whose path is already taken by a merged item model is skipped and its
// path returned in skipped.
func (g *Generator) Stubs(plan *override.Plan, merged []File, parent string, pretty bool) (files []File, skipped []string, err error) {
	taken := make(map[string]bool, len(merged))
	for _, f := range merged {
		taken[f.Path] = true
	}

	files = make([]File, 0, len(plan.NewModels))
	for _, ref := range plan.NewModels {
		p := resloc.Split(ref).ModelPath()
		if !fs.ValidPath(p) {
			return nil, nil, &description.MalformedError{
				Path: ref,
				Err:  &resloc.InvalidResourceLocationError{Value: ref, Reason: "path leaves the resource pack"},
			}
		}
		if taken[p] {
			g.logger.Warn("Stub collides with an updated vanilla model, keeping the vanilla model", "path", p, "model", ref)
			skipped = append(skipped, p)
			continue
		}
		taken[p] = true

		doc, err := model.NewStub(parent, ref)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build stub for %s: %w", ref, err)
		}
		data, err := doc.Marshal(pretty)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to render %s: %w", p, err)
		}
		files = append(files, File{Path: p, Kind: FileStub, Data: data})
	}
	return files, skipped, nil
}
