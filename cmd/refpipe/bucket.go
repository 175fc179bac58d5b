package refpipe

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uet-datalab/refpipe/pkg/bucket"
	"github.com/uet-datalab/refpipe/pkg/config"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage the Cloud Storage bucket for batch processing",
}

var bucketEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the batch-processing bucket if it does not exist",
	RunE:  runBucketEnsure,
}

var bucketCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check storage access by listing visible buckets",
	RunE:  runBucketCheck,
}

var bucketKeyFile string

func init() {
	rootCmd.AddCommand(bucketCmd)
	bucketCmd.AddCommand(bucketEnsureCmd)
	bucketCmd.AddCommand(bucketCheckCmd)

	bucketCmd.PersistentFlags().StringVar(&bucketKeyFile, "key", "", "Service account key file (default from config or GOOGLE_APPLICATION_CREDENTIALS)")
}

func newBucketClient(cmd *cobra.Command) (*bucket.Client, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	keyFile := bucketKeyFile
	if keyFile == "" {
		keyFile = cfg.LLM.KeyFile
	}
	if keyFile == "" {
		return nil, nil, fmt.Errorf("no service account key: pass --key or set GOOGLE_APPLICATION_CREDENTIALS")
	}

	log, closeLogger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := bucket.NewClient(cmd.Context(), keyFile, log)
	if err != nil {
		closeLogger()
		return nil, nil, err
	}
	return client, func() { client.Close(); closeLogger() }, nil
}

func runBucketEnsure(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newBucketClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	name, err := client.Ensure(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(name)
	return nil
}

func runBucketCheck(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newBucketClient(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := client.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no buckets found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
