package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kiranshivaraju/yaktalk/internal/consultation"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", f)
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return validateFormat(format)
}

func writeConsultation(w io.Writer, format string, res consultation.Result) error {
	if format != formatText {
		return writeStructured(w, format, res)
	}

	fmt.Fprintln(w, res.FinalResponse)
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 40))
	if a := res.Analysis; a != nil {
		fmt.Fprintf(w, "질문 유형: %s (신뢰도 %.2f)\n", a.QueryType, a.Confidence)
		if len(a.DetectedDrugs) > 0 {
			fmt.Fprintf(w, "감지된 약물: %s\n", strings.Join(a.DetectedDrugs, ", "))
		}
		if len(a.Symptoms) > 0 {
			fmt.Fprintf(w, "증상: %s\n", strings.Join(a.Symptoms, ", "))
		}
	}
	if e := res.Emergency; e != nil {
		fmt.Fprintf(w, "응급도: Level %d - %s\n", e.Level, e.Description)
	}
	for i, d := range res.SourceDocuments {
		fmt.Fprintf(w, "출처 %d: %s [%s] (%s)\n", i+1, d.Metadata.DrugName, d.Metadata.Field, d.Metadata.ItemCode)
	}
	return nil
}

func writeSearch(w io.Writer, format string, res consultation.SearchResult) error {
	if format != formatText {
		return writeStructured(w, format, res)
	}

	fmt.Fprintf(w, "검색어: %s\n", res.EnhancedQuery)
	fmt.Fprintf(w, "질문 유형: %s\n", res.Analysis.QueryType)
	if len(res.Documents) == 0 {
		fmt.Fprintln(w, "관련 문서를 찾지 못했습니다.")
		return nil
	}
	for i, d := range res.Documents {
		fmt.Fprintf(w, "\n[%d] %s (%s)\n%s\n", i+1, d.Metadata.DrugName, d.Metadata.ItemCode, d.Content)
	}
	return nil
}
