package rendering

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CompileTimeout bounds a single pdflatex run.
const CompileTimeout = 30 * time.Second

// CompilePDF compiles LaTeX source with pdflatex and writes the resulting
// PDF to outputPath. The compilation happens in a throwaway temp directory
// so auxiliary files never leak into the output directory.
func CompilePDF(ctx context.Context, latexSource, outputPath string) error {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return &CompileError{
			Message: "pdflatex not found in PATH, install a LaTeX distribution (e.g. TeX Live)",
			Cause:   err,
		}
	}

	workDir, err := os.MkdirTemp("", "resume-forge-latex-*")
	if err != nil {
		return &CompileError{Message: "failed to create working directory", Cause: err}
	}
	defer os.RemoveAll(workDir)

	texPath := filepath.Join(workDir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(latexSource), 0644); err != nil {
		return &CompileError{Message: "failed to write LaTeX source", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, CompileTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdflatex",
		"-interaction=nonstopmode", "-output-directory", workDir, texPath)
	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output
	runErr := cmd.Run()

	// pdflatex exits non-zero on warnings too; the PDF existing is the
	// success signal.
	pdfPath := filepath.Join(workDir, "resume.pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return &CompileError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: output.String(),
			Cause:     runErr,
		}
	}

	if err := copyFile(pdfPath, outputPath); err != nil {
		return &CompileError{Message: "failed to write PDF output", Cause: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	return os.WriteFile(dst, data, 0644)
}
