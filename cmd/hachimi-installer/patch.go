package main

import (
	"fmt"
	"os"

	"github.com/hachimi-installer/hachimi-installer/internal/delta"
	"github.com/hachimi-installer/hachimi-installer/internal/fsops"

	"github.com/spf13/cobra"
)

var (
	patchExpectSource string
	patchExpectTarget string
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Create, apply and hash executable patches",
	Long: `Tools for maintaining the executable patches shipped in the payload.

A release needs a forward patch (original to patched) and a reverse patch
(patched to original), plus the SHA-256 of both executables.`,
}

var patchDiffCmd = &cobra.Command{
	Use:   "diff <original> <modified> <out>",
	Short: "Write a patch turning original into modified",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		original, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		modified, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		patch, err := delta.Diff(original, modified)
		if err != nil {
			return err
		}
		if err := fsops.ReplaceFile(args[2], patch, 0644); err != nil {
			return fmt.Errorf("writing patch: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", args[2], len(patch))
		fmt.Fprintf(cmd.OutOrStdout(), "  source %s\n  target %s\n", delta.SHA256Hex(original), delta.SHA256Hex(modified))
		return nil
	},
}

var patchApplyCmd = &cobra.Command{
	Use:   "apply <input> <patch> <out>",
	Short: "Apply a patch, optionally checking both hashes",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		patch, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		if patchExpectSource != "" {
			if err := delta.Verify(args[0], input, patchExpectSource); err != nil {
				return err
			}
		}
		out, err := delta.Apply(input, patch)
		if err != nil {
			return err
		}
		if patchExpectTarget != "" {
			if err := delta.Verify(args[2], out, patchExpectTarget); err != nil {
				return err
			}
		}

		if err := fsops.ReplaceFile(args[2], out, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[2], delta.SHA256Hex(out))
		return nil
	},
}

var patchHashCmd = &cobra.Command{
	Use:   "hash <file>...",
	Short: "Print the SHA-256 of files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			sum, err := delta.HashFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, path)
		}
		return nil
	},
}

func init() {
	patchApplyCmd.Flags().StringVar(&patchExpectSource, "expect-source", "", "SHA-256 the input must have")
	patchApplyCmd.Flags().StringVar(&patchExpectTarget, "expect-target", "", "SHA-256 the output must have")

	patchCmd.AddCommand(patchDiffCmd)
	patchCmd.AddCommand(patchApplyCmd)
	patchCmd.AddCommand(patchHashCmd)
	rootCmd.AddCommand(patchCmd)
}
