package metrics

import (
	"os"
	"path/filepath"
)

// AutoDetectReports probes the conventional Maven report locations under
// root. Paths are empty when the corresponding report does not exist; the
// CSV coverage report wins over the XML one when both are present.
func AutoDetectReports(root string) (pitPath, jacocoPath string, flakyCandidates []string) {
	pit := filepath.Join(root, "target", "pit-reports", "mutations.xml")
	if isFile(pit) {
		pitPath = pit
	}

	jacocoCSV := filepath.Join(root, "target", "site", "jacoco", "jacoco.csv")
	jacocoXML := filepath.Join(root, "target", "site", "jacoco", "jacoco.xml")
	switch {
	case isFile(jacocoCSV):
		jacocoPath = jacocoCSV
	case isFile(jacocoXML):
		jacocoPath = jacocoXML
	}

	return pitPath, jacocoPath, FindFlakyReports(root)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
