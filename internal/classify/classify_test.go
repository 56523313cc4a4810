package classify

import (
	"reflect"
	"sort"
	"testing"

	"pgregory.net/rapid"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   bool
		bucket   Bucket
		wantSize string
	}{
		{"compute family", "c6i.4xlarge", true, BucketC, "4xlarge"},
		{"general family", "m5.large", true, BucketM, "large"},
		{"memory family", "r5d.xlarge", true, BucketR, "xlarge"},
		{"bare family code", "c.medium", true, BucketC, "medium"},
		{"unknown family", "t3.micro", false, 0, ""},
		{"gpu family", "g5.2xlarge", false, 0, ""},
		{"no dot", "c6i4xlarge", false, 0, ""},
		{"empty string", "", false, 0, ""},
		{"dot only", ".", false, 0, ""},
		{"missing size", "c6i.", false, 0, ""},
		{"missing family", ".4xlarge", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, size, ok := Classify(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if bucket != tt.bucket {
				t.Errorf("Classify(%q) bucket = %v, want %v", tt.input, bucket, tt.bucket)
			}
			if size != tt.wantSize {
				t.Errorf("Classify(%q) size = %q, want %q", tt.input, size, tt.wantSize)
			}
		})
	}
}

func TestBuckets(t *testing.T) {
	sets := Buckets([]string{"c6i.4xlarge", "c6i.2xlarge", "m5.large"})

	if want := []string{"2xlarge", "4xlarge"}; !reflect.DeepEqual(sets.CFamily, want) {
		t.Errorf("CFamily = %v, want %v", sets.CFamily, want)
	}
	if want := []string{"large"}; !reflect.DeepEqual(sets.MFamily, want) {
		t.Errorf("MFamily = %v, want %v", sets.MFamily, want)
	}
	if len(sets.RFamily) != 0 {
		t.Errorf("RFamily = %v, want empty", sets.RFamily)
	}
	// Empty buckets must still marshal as [], not null
	if sets.RFamily == nil {
		t.Error("RFamily is nil, want empty slice")
	}
}

func TestBucketsDeduplicates(t *testing.T) {
	sets := Buckets([]string{"r5.xlarge", "r6i.xlarge", "r5.xlarge"})
	if want := []string{"xlarge"}; !reflect.DeepEqual(sets.RFamily, want) {
		t.Errorf("RFamily = %v, want %v", sets.RFamily, want)
	}
}

// String ordering of size tokens is intentional: "16xlarge" sorts ahead
// of "2xlarge". Downstream consumers depend on this order.
func TestBucketsStringSortOrder(t *testing.T) {
	sets := Buckets([]string{"c5.2xlarge", "c5.16xlarge", "c5.large"})
	want := []string{"16xlarge", "2xlarge", "large"}
	if !reflect.DeepEqual(sets.CFamily, want) {
		t.Errorf("CFamily = %v, want %v", sets.CFamily, want)
	}
}

func TestBucketsIgnoresMalformed(t *testing.T) {
	sets := Buckets([]string{"", "nodot", "x9.huge", ".large", "c6i."})
	if len(sets.CFamily)+len(sets.MFamily)+len(sets.RFamily) != 0 {
		t.Errorf("expected all buckets empty, got %+v", sets)
	}
}

func TestBucketsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfN(rapid.String(), 0, 50).Draw(t, "ids")
		sets := Buckets(ids)

		for name, sizes := range map[string][]string{
			"c_family": sets.CFamily,
			"m_family": sets.MFamily,
			"r_family": sets.RFamily,
		} {
			if !sort.StringsAreSorted(sizes) {
				t.Fatalf("%s not sorted: %v", name, sizes)
			}
			seen := make(map[string]struct{}, len(sizes))
			for _, s := range sizes {
				if _, dup := seen[s]; dup {
					t.Fatalf("%s contains duplicate %q", name, s)
				}
				seen[s] = struct{}{}
			}
		}
	})
}

// Well-formed identifiers with a c/m/r family always land in exactly
// one bucket, whatever the generation token looks like.
func TestBucketsPlacementProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		family := rapid.SampledFrom([]string{"c", "m", "r"}).Draw(t, "family")
		gen := rapid.StringMatching(`[a-z0-9]{0,4}`).Draw(t, "gen")
		size := rapid.StringMatching(`[a-z0-9]{1,8}`).Draw(t, "size")

		id := family + gen + "." + size
		sets := Buckets([]string{id, id})

		var got []string
		switch family {
		case "c":
			got = sets.CFamily
		case "m":
			got = sets.MFamily
		case "r":
			got = sets.RFamily
		}
		if len(got) != 1 || got[0] != size {
			t.Fatalf("Buckets(%q) placed %v, want exactly [%q]", id, got, size)
		}
	})
}
