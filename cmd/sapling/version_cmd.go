package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in sapling's version
	VersionMajor = 0
	// VersionMinor is the minor number in sapling's version
	VersionMinor = 1
	// VersionPatch is the patch number in sapling's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sapling",
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version())
		},
	}
}

func version() string {
	return fmt.Sprintf("sapling v%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
