package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dotcommander/districtkpi/internal/config"
	"github.com/spf13/cobra"
	yamlv3 "gopkg.in/yaml.v3"
)

var paramsWrite string

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Show the effective scoring parameters",
	Long: `Params prints the thresholds and interruption factors in effect after
defaults, config file and environment are merged. With --write it saves the
full effective configuration as a starter config file instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runParams(cmd.OutOrStdout()); err != nil {
			printError(cmd.ErrOrStderr(), err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsCmd.Flags().StringVar(&paramsWrite, "write", "", "Write the effective config to this file (.yaml, .yml or .json)")
}

func runParams(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if paramsWrite != "" {
		if err := config.SaveConfig(cfg, paramsWrite); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", paramsWrite)
		return nil
	}

	doc := struct {
		Rounding   string                  `yaml:"rounding" json:"rounding"`
		Parameters config.ParametersConfig `yaml:"parameters" json:"parameters"`
	}{cfg.Rounding, cfg.Parameters}

	var data []byte
	if cfg.Format == "json" {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yamlv3.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("error encoding parameters: %w", err)
	}
	_, err = out.Write(data)
	return err
}
