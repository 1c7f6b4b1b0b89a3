package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	configPath string
	flagSchema string
	flagTable  string
	flagOut    string
	flagCase   string
)

var rootCmd = &cobra.Command{
	Use:           "sqlporter",
	Short:         "Export database schemas/data as SQL scripts or translate them between dialects",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sqlporter.toml", "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagSchema, "schema", "", "schema/owner/database to read (default: derived from the DSN)")

	for _, c := range []*cobra.Command{
		tableListCmd, dbSchemaCmd, tableSchemaCmd, tableDataCmd,
		convertDBSchemaCmd, convertTableCmd, convertDataCmd,
	} {
		c.Flags().StringVar(&flagOut, "out", "", "output file (default: per-command name under output.dir)")
		rootCmd.AddCommand(c)
	}
	tableListCmd.Flags().StringVar(&flagCase, "case", "", "force table name case: uppercase or lowercase")
	for _, c := range []*cobra.Command{tableSchemaCmd, tableDataCmd, convertTableCmd, convertDataCmd} {
		c.Flags().StringVar(&flagTable, "table", "", "table to operate on")
		c.MarkFlagRequired("table")
	}
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sqlporter version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString())
	},
}

var tableListCmd = &cobra.Command{
	Use:   "tablelist",
	Short: "Export the list of tables, one name per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, d, schemaName, err := openSource()
		if err != nil {
			return err
		}
		defer db.Close()

		caseFormat := flagCase
		if caseFormat == "" {
			caseFormat = cfg.Output.TableCase
		}

		log.Printf("generating table list for %s schema '%s'...", d.Name(), schemaName)
		content, err := newExporter(db, d).TableList(schemaName, caseFormat)
		if err != nil {
			return err
		}
		return writeScript(outPath(cfg, "tables.txt"), content)
	},
}

var dbSchemaCmd = &cobra.Command{
	Use:   "dbschema",
	Short: "Export every table's schema with native types",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, d, schemaName, err := openSource()
		if err != nil {
			return err
		}
		defer db.Close()

		log.Printf("generating database schema for %s schema '%s'...", d.Name(), schemaName)
		content, err := newExporter(db, d).DatabaseSchema(schemaName)
		if err != nil {
			return writePartial(outPath(cfg, "dbschema.sql"), content, err)
		}
		return writeScript(outPath(cfg, "dbschema.sql"), content)
	},
}

var tableSchemaCmd = &cobra.Command{
	Use:   "tableschema",
	Short: "Export one table's schema with native types",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, d, schemaName, err := openSource()
		if err != nil {
			return err
		}
		defer db.Close()

		log.Printf("generating schema for table %s...", flagTable)
		content, err := newExporter(db, d).TableSchema(schemaName, flagTable)
		if err != nil {
			return err
		}
		return writeScript(outPath(cfg, fmt.Sprintf("table_schema_%s.sql", cfg.Source.Type)), content)
	},
}

var tableDataCmd = &cobra.Command{
	Use:   "tabledata",
	Short: "Export one table's rows as INSERT statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, d, schemaName, err := openSource()
		if err != nil {
			return err
		}
		defer db.Close()

		log.Printf("generating data for table %s...", flagTable)
		it, err := newExporter(db, d).TableData(schemaName, flagTable)
		if err != nil {
			return err
		}
		defer it.Close()

		return streamInserts(outPath(cfg, flagTable+"_data.sql"), it, "", "")
	},
}

var convertDBSchemaCmd = &cobra.Command{
	Use:   "convertdbschema",
	Short: "Translate every table's schema into the target dialect",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, c, schemaName, err := openConverter()
		if err != nil {
			return err
		}
		defer db.Close()

		log.Printf("converting %s schema '%s' to %s...", c.source.Name(), schemaName, c.target.Name())
		reportSourceObjects(db, c.source, schemaName)

		content, diags, err := c.ConvertDatabaseSchema(schemaName)
		reportDiagnostics(diags)
		if err != nil {
			return writePartial(outPath(cfg, "converted_dbschema.sql"), content, err)
		}
		return writeScript(outPath(cfg, "converted_dbschema.sql"), content)
	},
}

var convertTableCmd = &cobra.Command{
	Use:   "converttable",
	Short: "Translate one table's schema into the target dialect",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, c, schemaName, err := openConverter()
		if err != nil {
			return err
		}
		defer db.Close()

		log.Printf("converting schema for table %s to %s...", flagTable, c.target.Name())
		content, diags, err := c.ConvertTableSchema(schemaName, flagTable)
		reportDiagnostics(diags)
		if err != nil {
			return err
		}
		return writeScript(outPath(cfg, "converted_"+flagTable+".sql"), content)
	},
}

var convertDataCmd = &cobra.Command{
	Use:   "convertdata",
	Short: "Translate one table's rows into target-dialect INSERT statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, c, schemaName, err := openConverter()
		if err != nil {
			return err
		}
		defer db.Close()

		prologue, err := loadHookSQL(cfg, cfg.Hooks.Prologue, flagTable)
		if err != nil {
			return err
		}
		epilogue, err := loadHookSQL(cfg, cfg.Hooks.Epilogue, flagTable)
		if err != nil {
			return err
		}

		log.Printf("converting data for table %s to %s...", flagTable, c.target.Name())
		it, err := c.ConvertTableData(schemaName, flagTable)
		if err != nil {
			return err
		}
		defer it.Close()

		header := fmt.Sprintf("-- Converted data from %s table %s to %s\n", c.source.Name(), flagTable, c.target.Name())
		return streamInserts(outPath(cfg, flagTable+"_converted_data.sql"), it, header+prologue, epilogue)
	},
}

// openSource loads the config and opens the source connection.
func openSource() (*Config, *sql.DB, Dialect, string, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, nil, "", err
	}

	d, err := newDialect(cfg.Source.Type)
	if err != nil {
		return nil, nil, nil, "", err
	}
	if m, ok := d.(*mysqlDialect); ok {
		m.charset = cfg.Source.Charset
	}

	db, err := d.OpenDB(cfg.Source.DSN)
	if err != nil {
		return nil, nil, nil, "", err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, nil, "", fmt.Errorf("ping %s: %w", d.Name(), err)
	}

	schemaName := flagSchema
	if schemaName == "" {
		schemaName = cfg.Source.Schema
	}
	if schemaName == "" {
		schemaName, err = d.DefaultSchema(cfg.Source.DSN)
		if err != nil {
			db.Close()
			return nil, nil, nil, "", err
		}
	}
	return cfg, db, d, schemaName, nil
}

// openConverter is openSource plus the target dialect and mapping direction.
func openConverter() (*Config, *sql.DB, *Converter, string, error) {
	cfg, db, d, schemaName, err := openSource()
	if err != nil {
		return nil, nil, nil, "", err
	}
	if cfg.Target.Type == "" {
		db.Close()
		return nil, nil, nil, "", fmt.Errorf("target.type is required for conversion commands")
	}
	target, err := newDialect(cfg.Target.Type)
	if err != nil {
		db.Close()
		return nil, nil, nil, "", err
	}
	c, err := newConverter(db, d, target)
	if err != nil {
		db.Close()
		return nil, nil, nil, "", err
	}
	return cfg, db, c, schemaName, nil
}

func outPath(cfg *Config, defaultName string) string {
	if flagOut != "" {
		if filepath.IsAbs(flagOut) {
			return flagOut
		}
		return filepath.Join(cfg.Output.Dir, flagOut)
	}
	return filepath.Join(cfg.Output.Dir, defaultName)
}

func reportDiagnostics(diags []Diagnostic) {
	for _, d := range diags {
		log.Printf("  WARN: %s", d)
	}
}

func reportSourceObjects(db *sql.DB, d Dialect, schemaName string) {
	objs, err := d.ListSourceObjects(db, schemaName)
	if err != nil {
		log.Printf("  WARN: could not inspect source objects: %v", err)
		return
	}
	for _, v := range objs.Views {
		log.Printf("  WARN: view %s is not converted", v)
	}
	for _, r := range objs.Routines {
		log.Printf("  WARN: routine %s is not converted", r)
	}
	for _, t := range objs.Triggers {
		log.Printf("  WARN: trigger %s is not converted", t)
	}
}

// writeScript persists script text. Output is plain UTF-8 SQL; a failed
// write is always surfaced, never a silently truncated file.
func writeScript(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("saved to %s", path)
	return nil
}

// writePartial saves whatever text accumulated before a failure under a
// .partial suffix so the operator can inspect it, then propagates the
// original error.
func writePartial(path, content string, cause error) error {
	if content == "" {
		return cause
	}
	partial := path + ".partial"
	if werr := os.WriteFile(partial, []byte(content), 0o644); werr != nil {
		return fmt.Errorf("%w (additionally, writing partial output failed: %v)", cause, werr)
	}
	return fmt.Errorf("%w (partial output saved to %s)", cause, partial)
}

// streamInserts writes iterator output to the file one statement per line,
// without materializing the table. On failure the rows written so far move
// to a .partial file.
func streamInserts(path string, it *InsertIterator, prologue, epilogue string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	fail := func(cause error) error {
		f.Close()
		if rerr := os.Rename(path, path+".partial"); rerr != nil {
			os.Remove(path)
			return cause
		}
		return fmt.Errorf("%w (partial output saved to %s.partial)", cause, path)
	}

	w := bufio.NewWriter(f)
	if prologue != "" {
		if _, err := w.WriteString(prologue); err != nil {
			return fail(fmt.Errorf("write %s: %w", path, err))
		}
	}

	for it.Next() {
		if _, err := w.WriteString(it.Statement() + "\n"); err != nil {
			return fail(fmt.Errorf("write %s: %w", path, err))
		}
	}
	if err := it.Err(); err != nil {
		w.Flush()
		return fail(err)
	}

	if epilogue != "" {
		if _, err := w.WriteString(epilogue); err != nil {
			return fail(fmt.Errorf("write %s: %w", path, err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flush %s: %w", path, err))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	log.Printf("%d rows saved to %s", it.Rows(), path)
	return nil
}
