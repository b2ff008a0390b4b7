package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "train_model",
	Short: "Train the resume role classifier",
	Long: "Fits a TF-IDF vectorizer and a logistic regression classifier on a CSV dataset with " +
		"skills and job_role columns, reports test metrics and writes the model artifacts.",
	SilenceUsage: true,
	RunE:         runTraining,
}

func init() {
	rootCmd.Flags().String("dataset", "", "path to the training CSV (default from DATASET_PATH)")
	rootCmd.Flags().String("out", "", "artifact directory (default from MODEL_DIR)")
	rootCmd.Flags().Int("max-features", 0, "vocabulary size cap (default from TRAIN_MAX_FEATURES)")
	rootCmd.Flags().Float64("test-size", 0, "held-out fraction (default from TRAIN_TEST_SIZE)")
	rootCmd.Flags().Uint64("seed", 0, "split seed (default from TRAIN_SEED)")
	rootCmd.Flags().Int("max-iter", 0, "solver iteration cap (default from TRAIN_MAX_ITER)")
	rootCmd.Flags().Int("workers", 0, "gradient workers (default from TRAIN_WORKERS)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTraining(cmd *cobra.Command, _ []string) error {
	log.Println("🚀 Starting model training...")

	cfg := config.Load()
	applyFlags(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trainer := services.NewTrainerService(
		repositories.NewDatasetRepository(),
		repositories.NewArtifactRepository(cfg.Model),
	)

	report, err := trainer.Train(ctx, cfg.Training)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Training Summary:")
	log.Printf("   Rows: %d (train %d, test %d)", report.Rows, report.TrainRows, report.TestRows)
	log.Printf("   Roles: %d, features: %d", len(report.Classes), report.FeatureDim)
	log.Printf("   Solver iterations: %d (converged: %t)", report.Iterations, report.Converged)
	log.Printf("   Accuracy: %.4f", report.Evaluation.Accuracy)
	log.Println(strings.Repeat("=", 60))
	fmt.Println(report.Evaluation.String())

	log.Printf("✅ Model and vectorizer saved inside %s as %s and %s (run %s)",
		cfg.Model.Dir, report.ClassifierFile, report.VectorizerFile, report.RunID)
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Training.DatasetPath, _ = flags.GetString("dataset")
	}
	if flags.Changed("out") {
		cfg.Model.Dir, _ = flags.GetString("out")
	}
	if flags.Changed("max-features") {
		cfg.Training.MaxFeatures, _ = flags.GetInt("max-features")
	}
	if flags.Changed("test-size") {
		cfg.Training.TestSize, _ = flags.GetFloat64("test-size")
	}
	if flags.Changed("seed") {
		cfg.Training.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("max-iter") {
		cfg.Training.MaxIter, _ = flags.GetInt("max-iter")
	}
	if flags.Changed("workers") {
		cfg.Training.Workers, _ = flags.GetInt("workers")
	}
}
