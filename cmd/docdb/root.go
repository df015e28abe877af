//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (
	rootCmd = &cobra.Command{
		Use:   "docdb",
		Short: "quick tour of the document database facade",
		Long: fmt.Sprintf(`docdb (v%s)

Runs basic CRUD scenarios (insert, query, update, replace, delete,
index creation) against MongoDB, using either the typed records or
schema-less documents.`, Version),
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of docdb",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docdb v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(peopleCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(versionCmd)

	key := "uri"
	rootCmd.PersistentFlags().String(key, "", wrapString("Connection string of the server, e.g. mongodb://127.0.0.1:27017. It overrides host and port"))
	key = "host"
	rootCmd.PersistentFlags().String(key, "127.0.0.1", wrapString("Host of the server"))
	key = "port"
	rootCmd.PersistentFlags().Int(key, 27017, wrapString("Port of the server"))
	key = "timeout"
	rootCmd.PersistentFlags().Duration(key, 10*time.Second, wrapString("Timeout to connect to the server and of each operation"))
	key = "log-level"
	rootCmd.PersistentFlags().String(key, "info", wrapString("Log level (debug, info, warn, error)"))
}
