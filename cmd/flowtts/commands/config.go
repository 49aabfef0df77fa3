package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/flowtts/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

A context holds one set of Tencent Cloud credentials (SecretId, SecretKey,
SdkAppId) plus optional defaults and S3 settings.

Configuration is stored in ~/.flowtts/flowtts/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Example:
  flowtts config add-context myctx --secret-id AKID... --secret-key KEY --sdk-app-id 1400000000
  flowtts config add-context sg --secret-id AKID... --secret-key KEY --sdk-app-id 1400000000 --region ap-singapore
  flowtts config add-context minio --secret-id AKID... --secret-key KEY --sdk-app-id 1400000000 \
      --s3-endpoint http://localhost:9000 --s3-region us-east-1 --s3-path-style`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		flags := cmd.Flags()

		ctx := &cli.Context{}
		var err error
		if ctx.SecretID, err = flags.GetString("secret-id"); err != nil {
			return fmt.Errorf("failed to read 'secret-id' flag: %w", err)
		}
		if ctx.SecretKey, err = flags.GetString("secret-key"); err != nil {
			return fmt.Errorf("failed to read 'secret-key' flag: %w", err)
		}
		if ctx.SdkAppID, err = flags.GetInt64("sdk-app-id"); err != nil {
			return fmt.Errorf("failed to read 'sdk-app-id' flag: %w", err)
		}
		if ctx.Region, err = flags.GetString("region"); err != nil {
			return fmt.Errorf("failed to read 'region' flag: %w", err)
		}
		if ctx.Endpoint, err = flags.GetString("endpoint"); err != nil {
			return fmt.Errorf("failed to read 'endpoint' flag: %w", err)
		}
		if ctx.Timeout, err = flags.GetInt("timeout"); err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}
		if ctx.DefaultVoice, err = flags.GetString("default-voice"); err != nil {
			return fmt.Errorf("failed to read 'default-voice' flag: %w", err)
		}

		s3 := &cli.S3Settings{}
		if s3.Region, err = flags.GetString("s3-region"); err != nil {
			return fmt.Errorf("failed to read 's3-region' flag: %w", err)
		}
		if s3.Endpoint, err = flags.GetString("s3-endpoint"); err != nil {
			return fmt.Errorf("failed to read 's3-endpoint' flag: %w", err)
		}
		if s3.AccessKeyID, err = flags.GetString("s3-access-key-id"); err != nil {
			return fmt.Errorf("failed to read 's3-access-key-id' flag: %w", err)
		}
		if s3.SecretAccessKey, err = flags.GetString("s3-secret-access-key"); err != nil {
			return fmt.Errorf("failed to read 's3-secret-access-key' flag: %w", err)
		}
		if s3.UsePathStyle, err = flags.GetBool("s3-path-style"); err != nil {
			return fmt.Errorf("failed to read 's3-path-style' flag: %w", err)
		}
		if *s3 != (cli.S3Settings{}) {
			ctx.S3 = s3
		}

		ctx.Name = name
		if err := ctx.Validate(); err != nil {
			return err
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}

		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}

		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tSDK_APP_ID\tREGION\tDEFAULT_VOICE")

		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			region := ctx.Region
			if region == "" {
				region = "(default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", current, name, ctx.SdkAppID, region, ctx.DefaultVoice)
		}

		return w.Flush()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfg.Path())
		fmt.Printf("Current context: %s\n", cfg.CurrentContext)
		fmt.Printf("Contexts: %d\n", len(cfg.Contexts))

		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			fmt.Printf("\n  %s:\n", name)
			fmt.Printf("    SecretId: %s\n", cli.MaskAPIKey(ctx.SecretID))
			fmt.Printf("    SecretKey: %s\n", cli.MaskAPIKey(ctx.SecretKey))
			fmt.Printf("    SdkAppId: %d\n", ctx.SdkAppID)
			if ctx.Region != "" {
				fmt.Printf("    Region: %s\n", ctx.Region)
			}
			if ctx.Endpoint != "" {
				fmt.Printf("    Endpoint: %s\n", ctx.Endpoint)
			}
			if ctx.Timeout > 0 {
				fmt.Printf("    Timeout: %ds\n", ctx.Timeout)
			}
			if ctx.DefaultVoice != "" {
				fmt.Printf("    Default Voice: %s\n", ctx.DefaultVoice)
			}
			if ctx.S3 != nil {
				fmt.Printf("    S3: region=%s endpoint=%s path_style=%v access_key=%s\n",
					ctx.S3.Region, ctx.S3.Endpoint, ctx.S3.UsePathStyle, cli.MaskAPIKey(ctx.S3.AccessKeyID))
			}
		}

		return nil
	},
}

func init() {
	// add-context flags
	f := configAddContextCmd.Flags()
	f.String("secret-id", "", "Tencent Cloud SecretId (required)")
	f.String("secret-key", "", "Tencent Cloud SecretKey (required)")
	f.Int64("sdk-app-id", 0, "TRTC SdkAppId (required)")
	f.String("region", "", "API region (default ap-beijing)")
	f.String("endpoint", "", "API host (default trtc.ai.tencentcloudapi.com)")
	f.Int("timeout", 0, "Request timeout in seconds")
	f.String("default-voice", "", "Default voice ID")
	f.String("s3-region", "", "S3 region for s3:// outputs")
	f.String("s3-endpoint", "", "S3-compatible endpoint URL")
	f.String("s3-access-key-id", "", "S3 access key ID")
	f.String("s3-secret-access-key", "", "S3 secret access key")
	f.Bool("s3-path-style", false, "Use path-style S3 addressing")

	// Add subcommands
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
