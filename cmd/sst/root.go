package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/sst/internal/application/dto"
	"github.com/reglet-dev/sst/internal/application/services"
	"github.com/reglet-dev/sst/internal/domain/rules"
	"github.com/reglet-dev/sst/internal/infrastructure/policyfile"
)

const longHelp = `sst runs a program with sandboxing applied through the Linux Landlock API.
You enable sandboxing for a specific feature, and then you specify an
allowlist of operations you want to allow. Everything else is denied.

Enable sandboxing for filesystem/networking:

%s
Filesystem-related permissions:

%s
FILE_* must be used with regular files or devices. PATH_BENEATH_* must be
used with directories.

Networking-related permissions:

%s
Rules can also be loaded from YAML policy files with --policy; see
'sst schema' for their format.`

const example = `  # Stop TCP networking for a shell and anything run in it
  sst ENABLE_NETWORK_SANDBOXING -- bash

  # Read-only system, writable workspace, HTTPS out
  sst ENABLE_FILESYSTEM_SANDBOXING ENABLE_NETWORK_SANDBOXING \
      PATH_BENEATH_EXEC:/ PATH_BENEATH_WRITE:/workspace \
      ALLOW_OUTGOING_TCP_PORT:443 -- make test`

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sst [rules...] -- command [args...]",
		Short:   "Simple Sandboxer Tool: run a program under a Landlock sandbox",
		Long:    fmt.Sprintf(longHelp, indent(rules.TriggerFilesystem, rules.TriggerNetwork), indent(fsVocabulary()...), indent(netVocabulary()...)),
		Example: example,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && cmd.ArgsLenAtDash() < 0 {
				return cmd.Help()
			}
			return a.run(args, cmd.ArgsLenAtDash())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.sst.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&a.format, "format", "table", "report format for --dry-run and abi: table, json, yaml")
	cmd.Flags().StringArrayVar(&a.policies, "policy", nil, "load rules from a YAML policy file (repeatable)")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "validate and build the ruleset, print it, and exit without sandboxing")

	cmd.AddCommand(newABICmd(a), newSchemaCmd(a), newVersionCmd(a))
	return cmd
}

func (a *app) run(args []string, dash int) error {
	if dash < 0 {
		return errors.New("missing '--' separator in arguments")
	}
	ruleTokens, command := args[:dash], args[dash:]
	if len(command) == 0 {
		return errors.New("no command specified after '--'")
	}

	if err := rules.CheckArguments(ruleTokens); err != nil {
		return err
	}

	tokens, err := a.policyTokens()
	if err != nil {
		return err
	}
	tokens = append(tokens, ruleTokens...)

	policy, err := rules.Parse(tokens)
	if err != nil {
		return err
	}

	path, err := a.launcher.Resolve(command[0])
	if err != nil {
		return err
	}

	svc := services.NewSandboxService(a.kernel, a.opener, a.logger)
	report, err := svc.Apply(policy, services.ApplyOptions{
		Flags:  a.cfg.RestrictFlags(),
		DryRun: a.dryRun,
	})
	if err != nil {
		return err
	}

	if a.dryRun {
		out := dto.NewCapabilitiesReport(report.Capabilities, a.kernel.Release()).
			WithRuleset(report.Stage.String(), report.HandledFS, report.HandledNet).
			WithCommand(path, command)
		for _, e := range report.Entries {
			out.AddRule(e.Subject, e.FS, e.Net)
		}
		return a.writeReport(out)
	}

	a.logger.Debug("executing sandboxed command", "path", path, "args", command[1:])
	return a.launcher.Exec(path, command, a.environ())
}

// policyTokens renders configured and --policy files into rule tokens.
func (a *app) policyTokens() ([]string, error) {
	files := append(append([]string{}, a.cfg.PolicyFiles...), a.policies...)
	if len(files) == 0 {
		return nil, nil
	}

	loader, err := policyfile.NewLoader(policyfile.HostConditions(a.kernel.Release()), a.logger)
	if err != nil {
		return nil, err
	}
	return loader.LoadFiles(files)
}

func fsVocabulary() []string {
	var out []string
	for _, kw := range rules.FilesystemKeywords() {
		placeholder := "<filepath>"
		if strings.HasPrefix(kw, "PATH_BENEATH_") {
			placeholder = "<dir>"
		}
		out = append(out, kw+":"+placeholder)
	}
	return out
}

func netVocabulary() []string {
	var out []string
	for _, kw := range rules.NetworkKeywords() {
		out = append(out, kw+":<port>")
	}
	return out
}

func indent(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("    ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
