package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/pkg/csvexport"
)

func productsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "productos",
		Short: "Importación y exportación del catálogo",
	}

	var mode string
	importCmd := &cobra.Command{
		Use:   "importar <archivo.csv>",
		Short: "Importa productos desde un CSV",
		Long: `Columnas: codigo, nombre, descripcion, categoria_codigo, precio_venta, tasa_iva,
unidad, stock_minimo. Las filas con error se reportan y no detienen la importación.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			res, err := e.svc.Products.Import(cmd.Context(), f, mode)
			if err != nil {
				return err
			}
			for _, re := range res.Errors {
				e.log.Warn().Int("fila", re.Row).Str("code", re.Code).Msg(re.Message)
			}
			e.log.Info().
				Int("creados", res.Created).
				Int("actualizados", res.Updated).
				Int("omitidos", res.Skipped).
				Int("errores", len(res.Errors)).
				Msg("importación terminada")
			return nil
		},
	}
	importCmd.Flags().StringVar(&mode, "modo", usecase.ImportModeSkip, "skip | update para códigos existentes")

	var output, query, categoryID string
	exportCmd := &cobra.Command{
		Use:   "exportar",
		Short: "Exporta el catálogo a CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := e.svc.Products.Export(cmd.Context(), dto.ProductListRequest{Query: query, CategoryID: categoryID})
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := csvexport.Write(w, table); err != nil {
				return fmt.Errorf("escribir CSV: %w", err)
			}
			e.log.Info().Int("productos", len(table.Rows)).Str("salida", output).Msg("exportación terminada")
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&output, "salida", "o", "-", "archivo destino (- = stdout)")
	exportCmd.Flags().StringVar(&query, "q", "", "filtro de búsqueda")
	exportCmd.Flags().StringVar(&categoryID, "categoria", "", "ID de categoría")

	cmd.AddCommand(importCmd, exportCmd)
	return cmd
}
