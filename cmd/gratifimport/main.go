// gratifimport imports a local payroll bonus CSV into the configured
// database, mirroring the /api/importar pipeline for batch use.
//
// Usage:
//
//	gratifimport --arquivo pagamento_fev_2025.csv --usuario "joao.silva"
//	gratifimport --arquivo pagamento_fev_2025.csv --usuario "joao.silva" --substituir --sim
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gratifpanel/internal/config"
	"gratifpanel/internal/repository"
	"gratifpanel/internal/service"
)

var (
	arquivo    string
	usuario    string
	substituir bool
	sim        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gratifimport",
		Short:         "Import a gratificação CSV extract into the database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVar(&arquivo, "arquivo", "", "path to the CSV file (e.g. pagamento_fev_2025.csv)")
	rootCmd.Flags().StringVar(&usuario, "usuario", "", "name or e-mail of whoever is importing")
	rootCmd.Flags().BoolVar(&substituir, "substituir", false, "delete the competency's existing rows before importing (reprocessing)")
	rootCmd.Flags().BoolVar(&sim, "sim", false, "skip the confirmation prompt for --substituir")
	_ = rootCmd.MarkFlagRequired("arquivo")
	_ = rootCmd.MarkFlagRequired("usuario")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger()

	data, err := os.ReadFile(arquivo)
	if err != nil {
		return fmt.Errorf("reading %s: %w", arquivo, err)
	}

	if substituir && !sim {
		fmt.Printf("ATENÇÃO: todos os registros da competência serão removidos antes da importação.\n")
		fmt.Printf("Digite SIM para confirmar: ")
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		if strings.ToUpper(strings.TrimSpace(scanner.Text())) != "SIM" {
			fmt.Println("Operação cancelada.")
			return nil
		}
	}

	db, err := repository.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	importService := service.NewImportService(
		repository.NewGratificacaoRepository(db),
		repository.NewImportacaoLogRepository(db),
		logger,
	)

	resultado, err := importService.Importar(cmd.Context(), data, filepath.Base(arquivo), usuario, substituir)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"mes_ano":   resultado.MesAno,
		"inseridos": resultado.Inseridos,
		"erros":     resultado.Erros,
		"operacao":  resultado.Operacao,
	}).Info("importação concluída")
	return nil
}
