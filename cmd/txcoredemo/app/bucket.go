package app

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/relixdb/txcore/storage/page"
)

func int64Eq(a, b int64) bool { return a == b }

func initBucket() {
	var count int

	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Fills a hash bucket page with random int64 keys and reports occupancy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBucket(count)
		},
	}
	cmd.Flags().IntVar(&count, "count", 64, "number of (key,value) pairs to attempt inserting")
	rootCmd.AddCommand(cmd)
}

func runBucket(count int) error {
	bucket := page.NewHashBucketPage[int64, int64]()
	r := rand.New(rand.NewSource(1))

	inserted, rejected := 0, 0
	for i := 0; i < count; i++ {
		key := r.Int63n(int64(count) * 4)
		if bucket.Insert(key, int64(i), int64Eq) {
			inserted++
		} else {
			rejected++
		}
	}

	fmt.Printf("bucket array size: %d\n", bucket.ArraySize())
	fmt.Printf("attempted inserts: %d, accepted: %d, rejected (full or duplicate): %d\n", count, inserted, rejected)
	fmt.Printf("num readable: %d, full: %t, empty: %t\n", bucket.NumReadable(), bucket.IsFull(), bucket.IsEmpty())
	return nil
}
