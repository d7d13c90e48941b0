package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/babylon-sim/babylon/sim/entity"
	"github.com/babylon-sim/babylon/sim/store"
)

var (
	inspectStoreDir string  // Store to read
	similarTo       string  // Entity ID to query for similar entities
	similarMax      int     // Max similar entities to print
	similarMin      float64 // Minimum cosine similarity
)

// inspectCmd prints the latest persisted world state, optionally with a
// similarity query over entity attribute vectors.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the latest persisted simulation state",
	Run: func(cmd *cobra.Command, args []string) {
		appCfg, err := LoadEnv()
		if err != nil {
			logrus.Fatalf("Invalid environment: %v", err)
		}
		if inspectStoreDir == "" {
			inspectStoreDir = appCfg.DatabaseURL
		}
		if inspectStoreDir == "" {
			logrus.Fatal("No store directory given (--store-dir or BABYLON_DATABASE_URL)")
		}

		st, err := store.Open(inspectStoreDir)
		if err != nil {
			logrus.Fatalf("Could not open store: %v", err)
		}
		defer func() {
			if err := st.Close(); err != nil {
				logrus.Errorf("Could not close store: %v", err)
			}
		}()

		snap, err := st.LatestSnapshot()
		if err != nil {
			logrus.Fatalf("No snapshot found: %v", err)
		}

		fmt.Printf("Snapshot at tick %d\n", snap.Clock)
		fmt.Printf("  Gini         : %.3f\n", snap.Gini)
		fmt.Printf("  Unemployment : %.3f\n", snap.Unemployment)
		fmt.Printf("  Growth       : %.3f\n", snap.Growth)
		fmt.Printf("  Stability    : %.3f\n", snap.Stability)
		fmt.Printf("  Repression   : %.3f\n", snap.Repression)
		fmt.Printf("Entities: %d\n", len(snap.Entities))
		for _, c := range snap.Contradictions {
			fmt.Printf("  contradiction %-24s state=%-8s intensity=%.3f\n", c.ID, c.State, c.Intensity)
		}

		if similarTo == "" {
			return
		}
		reg := entity.NewRegistry()
		for _, e := range snap.Entities {
			re := reg.CreateWithID(e.ID, e.Type, e.Role)
			for k, v := range e.Attributes {
				re.Attributes[k] = v
			}
		}
		matches, err := reg.FindSimilar(similarTo, similarMax, similarMin, entity.SimilarityFilter{})
		if err != nil {
			logrus.Fatalf("Similarity query failed: %v", err)
		}
		fmt.Printf("Entities similar to %s:\n", similarTo)
		for _, m := range matches {
			fmt.Printf("  %-24s %.3f\n", m.Entity.ID, m.Similarity)
		}
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectStoreDir, "store-dir", "", "Store directory to read")
	inspectCmd.Flags().StringVar(&similarTo, "similar", "", "Entity ID to query for similar entities")
	inspectCmd.Flags().IntVar(&similarMax, "max-results", 5, "Max similar entities to print")
	inspectCmd.Flags().Float64Var(&similarMin, "min-similarity", 0.0, "Minimum cosine similarity")

	rootCmd.AddCommand(inspectCmd)
}
