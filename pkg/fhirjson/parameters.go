package fhirjson

import (
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

// DiffToParameters renders diffs as the Parameters result of a $diff
// operation: one "diff" parameter per entry with path, type and the old
// and new values as parts.
func DiffToParameters(diffs []DiffEntry) *fhirmodels.Parameters {
	params := &fhirmodels.Parameters{
		Parameter: make([]fhirmodels.ParametersParameter, 0, len(diffs)),
	}
	for _, d := range diffs {
		parts := []fhirmodels.ParametersParameter{
			{Name: "path", ValueString: d.Path},
			{Name: "type", ValueCode: d.Type},
		}
		if d.Type != Added {
			parts = append(parts, fhirmodels.ParametersParameter{Name: "oldValue", ValueString: valueText(d.OldValue)})
		}
		if d.Type != Removed {
			parts = append(parts, fhirmodels.ParametersParameter{Name: "newValue", ValueString: valueText(d.NewValue)})
		}
		params.Parameter = append(params.Parameter, fhirmodels.ParametersParameter{
			Name: "diff",
			Part: parts,
		})
	}
	return params
}

func valueText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return render(v)
}
