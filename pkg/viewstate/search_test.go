package viewstate

import "testing"

func TestExtractSearchTerm(t *testing.T) {
	tests := []struct {
		name   string
		params ParameterMap
		want   string
	}{
		{
			name:   "nested filter term",
			params: ParameterMap{KeyFilter: map[string]string{KeySearch: "jane"}},
			want:   "jane",
		},
		{
			name:   "absent filter defaults to empty",
			params: ParameterMap{},
			want:   "",
		},
		{
			name:   "filter without isearch defaults to empty",
			params: ParameterMap{KeyFilter: map[string]string{"status": "active"}},
			want:   "",
		},
		{
			name:   "pre-flattened bracket key",
			params: ParameterMap{"filter[isearch]": "doe"},
			want:   "doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSearchTerm(tt.params); got != tt.want {
				t.Errorf("ExtractSearchTerm() = %q, want %q", got, tt.want)
			}
		})
	}
}
