package adapter

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/yalue/elf_reader"
)

// sectionTypeNoBits marks sections without file content (.bss).
const sectionTypeNoBits = 8

// ObjectSection is the file content of one named ELF section.
type ObjectSection struct {
	Name    string
	Type    uint32
	Size    uint64
	Content []byte
}

// ObjectInspector reads compiled objects to explain binary differences.
type ObjectInspector interface {
	// Sections returns the named sections of an ELF object.
	Sections(object []byte) ([]ObjectSection, error)

	// DiffSections lists the section names whose content differs between two
	// objects, in ascending order.
	DiffSections(a, b []byte) ([]string, error)
}

// ELFObjectInspector implements ObjectInspector with elf_reader.
type ELFObjectInspector struct{}

// NewELFObjectInspector constructs an ELFObjectInspector.
func NewELFObjectInspector() *ELFObjectInspector {
	return &ELFObjectInspector{}
}

// Sections parses object and returns its sections with their file content.
func (i *ELFObjectInspector) Sections(object []byte) ([]ObjectSection, error) {
	elfFile, err := elf_reader.ParseELFFile(object)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF object: %w", err)
	}

	count := elfFile.GetSectionCount()
	sections := make([]ObjectSection, 0, count)

	for idx := uint16(0); idx < count; idx++ {
		header, err := elfFile.GetSectionHeader(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to read section header %d: %w", idx, err)
		}

		name, err := elfFile.GetSectionName(idx)
		if err != nil || name == "" {
			name = fmt.Sprintf("#%d", idx)
		}

		section := ObjectSection{
			Name: name,
			Type: uint32(header.GetType()),
			Size: header.GetSize(),
		}

		if section.Type != sectionTypeNoBits {
			offset := header.GetFileOffset()
			end := offset + section.Size

			if end > uint64(len(object)) || end < offset {
				return nil, fmt.Errorf("section %s exceeds object size", name)
			}

			section.Content = object[offset:end]
		}

		sections = append(sections, section)
	}

	return sections, nil
}

// DiffSections compares sections by name. A section present on one side only
// counts as different.
func (i *ELFObjectInspector) DiffSections(a, b []byte) ([]string, error) {
	sectionsA, err := i.Sections(a)
	if err != nil {
		return nil, err
	}

	sectionsB, err := i.Sections(b)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]ObjectSection, len(sectionsB))
	for _, section := range sectionsB {
		byName[section.Name] = section
	}

	diff := make([]string, 0)

	for _, section := range sectionsA {
		other, ok := byName[section.Name]
		delete(byName, section.Name)

		if !ok || section.Size != other.Size || !bytes.Equal(section.Content, other.Content) {
			diff = append(diff, section.Name)
		}
	}

	for name := range byName {
		diff = append(diff, name)
	}

	sort.Strings(diff)

	return diff, nil
}
