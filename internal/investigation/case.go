package investigation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"casework/internal/failures"
)

// Layout lists the directories Setup creates under a case directory, relative
// to it. Child scripts rely on these names.
var Layout = []string{
	"00_source_documents/irs_990s/pdfs",
	"00_source_documents/irs_990s/xmls",
	"00_source_documents/corporate_filings",
	"00_source_documents/property_records_raw",
	"00_source_documents/legal_documents",
	"00_source_documents/campaign_finance",
	"00_source_documents/lobbying_records",
	"00_source_documents/media_clippings_and_web_archives",
	"00_source_documents/other_public_records",
	"01_datashare_outputs/extracted_text",
	"01_datashare_outputs/ner_results",
	"02_parsed_and_structured_data/irs_990_parsed",
	"02_parsed_and_structured_data/corporate_parsed",
	"02_parsed_and_structured_data/property_parsed",
	"02_parsed_and_structured_data/campaign_finance_parsed",
	"02_parsed_and_structured_data/lobbying_parsed",
	"03_analysis_and_reports",
	"04_findings_and_narrative",
}

// Case is one investigation: a validated name and its directory.
type Case struct {
	Name string
	Dir  string
}

// New validates name and derives the case directory under root. The
// directory must be an immediate child of root, which rules out ".".
func New(root, name string) (Case, error) {
	if err := ValidateName(name); err != nil {
		return Case{}, err
	}
	dir := filepath.Join(root, name)
	if !isChildOf(root, dir, name) {
		return Case{}, fmt.Errorf("%w: case name %q does not name a directory under %s",
			failures.ErrInvalidCaseName, name, root)
	}
	return Case{Name: name, Dir: dir}, nil
}

func isChildOf(root, dir, name string) bool {
	return filepath.Dir(dir) == filepath.Clean(root) && filepath.Base(dir) == name
}

// Exists reports whether the case directory is present.
func (c Case) Exists() bool {
	info, err := os.Stat(c.Dir)
	return err == nil && info.IsDir()
}

// Setup re-validates the name and creates the case layout. Existing
// directories are left untouched; the returned slice lists the layout
// entries that were created by this call.
func (c Case) Setup() ([]string, error) {
	if err := ValidateName(c.Name); err != nil {
		return nil, err
	}
	if !isChildOf(filepath.Dir(c.Dir), c.Dir, c.Name) {
		return nil, failures.Wrap(failures.ErrSetup, "setup", "layout", fmt.Sprintf("case directory %q does not match case name", c.Dir), nil)
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, failures.Wrap(failures.ErrSetup, "setup", "create case directory", c.Dir, err)
	}
	var created []string
	for _, rel := range Layout {
		path := filepath.Join(c.Dir, filepath.FromSlash(rel))
		_, statErr := os.Stat(path)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return created, failures.Wrap(failures.ErrSetup, "setup", "create directory", path, err)
		}
		if errors.Is(statErr, fs.ErrNotExist) {
			created = append(created, rel)
		}
	}
	return created, nil
}
