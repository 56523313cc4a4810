// Package classify maps raw capacity-type identifiers onto the three
// coarse instance-family buckets used in edge reports.
package classify

import (
	"sort"
	"strings"

	"github.com/edgecatalog/edged/internal/model"
)

// Bucket is one of the coarse instance-family groupings.
type Bucket int

const (
	BucketC Bucket = iota
	BucketM
	BucketR
)

// Classify splits a capacity-type identifier such as "c6i.4xlarge" into
// its family bucket and size token. The bucket is decided solely by the
// first character of the part before the dot. Identifiers without a dot,
// empty strings, and families outside c/m/r report ok=false and are
// ignored by callers.
func Classify(capacityType string) (Bucket, string, bool) {
	family, size, found := strings.Cut(capacityType, ".")
	if !found || family == "" || size == "" {
		return 0, "", false
	}

	switch family[0] {
	case 'c':
		return BucketC, size, true
	case 'm':
		return BucketM, size, true
	case 'r':
		return BucketR, size, true
	}
	return 0, "", false
}

// Buckets classifies a list of capacity-type identifiers and returns the
// size variants per family, each deduplicated and sorted. The sort is
// plain string order, kept for compatibility with existing consumers
// even though "16xlarge" lands before "2xlarge".
func Buckets(capacityTypes []string) model.FamilySets {
	sets := map[Bucket]map[string]struct{}{
		BucketC: {},
		BucketM: {},
		BucketR: {},
	}

	for _, ct := range capacityTypes {
		bucket, size, ok := Classify(ct)
		if !ok {
			continue
		}
		sets[bucket][size] = struct{}{}
	}

	return model.FamilySets{
		CFamily: sortedSizes(sets[BucketC]),
		MFamily: sortedSizes(sets[BucketM]),
		RFamily: sortedSizes(sets[BucketR]),
	}
}

func sortedSizes(set map[string]struct{}) []string {
	sizes := make([]string, 0, len(set))
	for size := range set {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}
