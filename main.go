// Command siepic-tools extracts, verifies and exports photonic circuit
// netlists from layout files, and prepares waveguide generation, DRC and
// Monte Carlo runs.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"siepic-tools/internal/circuit"
	"siepic-tools/internal/drc"
	"siepic-tools/internal/montecarlo"
	"siepic-tools/internal/session"
	"siepic-tools/internal/verification"
	"siepic-tools/internal/waveguide"
	"siepic-tools/pkg/geometry"
)

const appVersion = "0.1.0"

var (
	layoutPath string
	techPath   string
	modelsPath string
	tolerance  float64
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	root := &cobra.Command{
		Use:     "siepic-tools",
		Short:   "Photonic layout netlist toolkit",
		Version: appVersion,
	}
	root.PersistentFlags().StringVar(&layoutPath, "layout", "", "layout JSON file")
	root.PersistentFlags().StringVar(&techPath, "tech", "", "technology YAML file")
	root.PersistentFlags().StringVar(&modelsPath, "models", "", "compact-model registry JSON file")
	root.PersistentFlags().Float64Var(&tolerance, "tolerance", 0, "pin coincidence tolerance in dbu (0 = default)")

	root.AddCommand(extractCmd(), verifyCmd(), exportCmd(), waveguideCmd(), montecarloCmd(), drcCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openSession() (*session.Session, error) {
	if layoutPath == "" || techPath == "" {
		return nil, fmt.Errorf("--layout and --tech are required")
	}
	return session.Open(layoutPath, techPath, modelsPath)
}

func extractCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the netlist from a layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			x, err := s.Extractor(tolerance).Extract(nil)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(x, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(string(data))
				return nil
			}
			return os.WriteFile(out, data, 0644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write netlist JSON to file instead of stdout")
	return cmd
}

func verifyCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Extract and run connectivity verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			x, err := s.Extractor(tolerance).Extract(nil)
			if err != nil {
				return err
			}
			report := verification.Verify(x, s.Tech, s.Models)
			log.Printf("verification %s: %d errors, %d warnings",
				report.ID, report.ErrorCount(), report.WarningCount())
			for _, issue := range report.Issues {
				fmt.Printf("%s [%s] %s\n", issue.Severity, issue.Code, issue.Message)
			}
			if out != "" {
				if err := report.Save(out); err != nil {
					return err
				}
			}
			if !report.Clean() {
				return fmt.Errorf("verification found %d errors", report.ErrorCount())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write report JSON to file")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Extract and export a simulator deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			x, err := s.Extractor(tolerance).Extract(nil)
			if err != nil {
				return err
			}
			if out == "" {
				return circuit.Write(os.Stdout, x, s.Tech)
			}
			return circuit.WriteFile(out, x, s.Tech)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "deck output file")
	return cmd
}

func waveguideCmd() *cobra.Command {
	var profilePath, routePath, out string
	cmd := &cobra.Command{
		Use:   "waveguide",
		Short: "Generate waveguide geometry from a profile and a route",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profilePath == "" || routePath == "" {
				return fmt.Errorf("--profile and --route are required")
			}
			params, err := waveguide.Load(profilePath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(routePath)
			if err != nil {
				return err
			}
			var route []geometry.Point2D
			if err := json.Unmarshal(data, &route); err != nil {
				return fmt.Errorf("parse route %s: %w", routePath, err)
			}
			shapes, err := waveguide.Generate(route, *params)
			if err != nil {
				return err
			}
			log.Printf("generated %d waveguide polygons, length %.3f um",
				len(shapes), waveguide.Length(route, *params))
			outData, err := json.MarshalIndent(shapes, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(string(outData))
				return nil
			}
			return os.WriteFile(out, outData, 0644)
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile", "", "waveguide profile YAML file")
	cmd.Flags().StringVar(&routePath, "route", "", "route points JSON file (microns)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write generated shapes JSON to file")
	return cmd
}

func montecarloCmd() *cobra.Command {
	var paramsPath, out string
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Sample Monte Carlo corners for the extracted circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if paramsPath == "" {
				return fmt.Errorf("--params is required")
			}
			params, err := montecarlo.Load(paramsPath)
			if err != nil {
				return err
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			x, err := s.Extractor(tolerance).Extract(nil)
			if err != nil {
				return err
			}
			res, err := montecarlo.Run(x, s.Tech, s.Models, *params)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(string(data))
				return nil
			}
			return os.WriteFile(out, data, 0644)
		},
	}
	cmd.Flags().StringVar(&paramsPath, "params", "", "Monte Carlo parameters YAML file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write corner table JSON to file")
	return cmd
}

func drcCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "drc",
		Short: "Run a remote DRC job against the layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" || layoutPath == "" {
				return fmt.Errorf("--config and --layout are required")
			}
			cfg, err := drc.Load(configPath)
			if err != nil {
				return err
			}
			log.Printf("drc: %s:%d deck %s", cfg.URL, cfg.Port, cfg.Calibre)
			output, err := drc.ExecRunner{}.Run(cfg, layoutPath)
			if output != "" {
				fmt.Print(output)
			}
			if err != nil {
				return err
			}
			if n := drc.Summarize(output); n >= 0 {
				log.Printf("drc: %d violations", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "DRC connection YAML file")
	return cmd
}
