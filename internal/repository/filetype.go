package repository

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// FileType is an extension-derived classification of a tracked file.
type FileType string

// Known file types. TypeUnknown is returned for anything unclassified.
const (
	TypeUnknown  FileType = ""
	TypeBash     FileType = "bash"
	TypeCSS      FileType = "css"
	TypeData     FileType = "data"
	TypeImages   FileType = "images"
	TypeJS       FileType = "js"
	TypeJSON     FileType = "json"
	TypeMarkdown FileType = "md"
	TypePHP      FileType = "php"
	TypeSQL      FileType = "sql"
	TypeXML      FileType = "xml"
	TypeYAML     FileType = "yaml"
)

var extensionTypes = map[string]FileType{
	"bash":  TypeBash,
	"sh":    TypeBash,
	"css":   TypeCSS,
	"csv":   TypeData,
	"pdv":   TypeData,
	"tsv":   TypeData,
	"txt":   TypeData,
	"jpg":   TypeImages,
	"jpeg":  TypeImages,
	"png":   TypeImages,
	"gif":   TypeImages,
	"bmp":   TypeImages,
	"tiff":  TypeImages,
	"svg":   TypeImages,
	"webp":  TypeImages,
	"js":    TypeJS,
	"ts":    TypeJS,
	"json":  TypeJSON,
	"md":    TypeMarkdown,
	"php":   TypePHP,
	"sql":   TypeSQL,
	"xml":   TypeXML,
	"xsd":   TypeXML,
	"xsl":   TypeXML,
	"xslt":  TypeXML,
	"xhtml": TypeXML,
	"yaml":  TypeYAML,
	"yml":   TypeYAML,
}

var (
	extensionRE = regexp.MustCompile(`^\w+$`)
	shebangRE   = regexp.MustCompile(`^#!.*\b(\w+)$`)
)

// ExtensionType maps a bare extension (without the dot) to its FileType.
func ExtensionType(ext string) FileType {
	return extensionTypes[strings.ToLower(ext)]
}

// ParseFileType validates a file type name such as "php" or "yaml".
func ParseFileType(name string) (FileType, error) {
	t := FileType(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range extensionTypes {
		if known == t {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFileType, name, strings.Join(KnownFileTypes(), ", "))
}

// KnownFileTypes returns the sorted names of all classifiable types.
func KnownFileTypes() []string {
	seen := make(map[FileType]bool)
	var names []string
	for _, t := range extensionTypes {
		if !seen[t] {
			seen[t] = true
			names = append(names, string(t))
		}
	}
	sort.Strings(names)
	return names
}

// Classify derives a FileType from the extension of a slash-separated path.
// Paths whose base name has no extension are TypeUnknown.
func Classify(p string) FileType {
	base := path.Base(p)
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 {
		return TypeUnknown
	}

	ext := base[dot+1:]
	if !extensionRE.MatchString(ext) {
		return TypeUnknown
	}
	return ExtensionType(ext)
}

// ClassifyFile is like Classify but inspects the shebang line of
// extensionless files under root, so "#!/usr/bin/env php" scripts are TypePHP.
func ClassifyFile(root, rel string) FileType {
	if strings.ContainsRune(path.Base(rel), '.') {
		return Classify(rel)
	}

	line, err := readFirstLine(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return TypeUnknown
	}

	m := shebangRE.FindStringSubmatch(line)
	if m == nil {
		return TypeUnknown
	}
	return ExtensionType(m[1])
}

func readFirstLine(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	if s.Scan() {
		return strings.TrimRight(s.Text(), "\r"), nil
	}
	return "", s.Err()
}
