package cli

import (
	"slices"
	"testing"
)

func TestParseProvision(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantID    string
		wantFiles []string
		wantErr   bool
	}{
		{
			name:      "Single",
			value:     "VCF=sample.vcf",
			wantID:    "VCF",
			wantFiles: []string{"sample.vcf"},
		},
		{
			name:      "Multiple",
			value:     "Reference FASTA=chr1.fa,chr2.fa",
			wantID:    "Reference FASTA",
			wantFiles: []string{"chr1.fa", "chr2.fa"},
		},
		{
			name:      "TrimsWhitespace",
			value:     " XG = a.xg , b.xg ",
			wantID:    "XG",
			wantFiles: []string{"a.xg", "b.xg"},
		},
		{
			name:    "MissingEquals",
			value:   "VCF",
			wantErr: true,
		},
		{
			name:    "EmptyIdentifier",
			value:   "=sample.vcf",
			wantErr: true,
		},
		{
			name:    "EmptyFiles",
			value:   "VCF=,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, files, err := parseProvision(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProvision: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("identifier = %q, want %q", id, tt.wantID)
			}
			if !slices.Equal(files, tt.wantFiles) {
				t.Errorf("files = %v, want %v", files, tt.wantFiles)
			}
		})
	}
}
