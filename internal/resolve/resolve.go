// Package resolve validates cross-references between parsed entry
// descriptions and records inbound citations on their targets.
package resolve

import (
	"fmt"

	"github.com/matsen/gitbib/internal/describe"
	"github.com/matsen/gitbib/internal/entry"
)

// Warning reports a dangling cross-reference: a description cites an
// identifier with no corresponding entry. Warnings are diagnostics, not
// errors; the referring part is left in place for renderers to style.
type Warning struct {
	SourceID string `json:"source"`
	TargetID string `json:"target"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: unresolved reference to %q", w.SourceID, w.TargetID)
}

// Resolve walks every cross-reference in every entry's parsed
// description, appending an inbound citation to each known target and
// collecting a warning for each unknown one.
//
// Entries and parts are visited in registry insertion order, so the
// resulting inbound-citation sequences are reproducible across runs.
// Repeat citations from one source to one target are all retained, and
// self-references are recorded like any other.
func Resolve(reg *entry.Registry) []Warning {
	var warnings []Warning

	for _, src := range reg.Entries() {
		for _, para := range src.Description {
			for _, part := range para.Parts {
				ref, ok := part.(describe.CrossRef)
				if !ok {
					continue
				}
				target, found := reg.Lookup(ref.TargetID)
				if !found {
					warnings = append(warnings, Warning{
						SourceID: src.ID,
						TargetID: ref.TargetID,
					})
					continue
				}
				target.Inbound = append(target.Inbound, entry.InboundCitation{
					SourceID: src.ID,
					Num:      ref.Num,
				})
			}
		}
	}

	return warnings
}
