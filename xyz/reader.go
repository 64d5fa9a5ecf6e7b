package xyz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	chem "github.com/rmera/gochem"

	"github.com/katalvlaran/molfrag/molgraph"
)

// Sentinel errors for reading.
var (
	// ErrMalformed indicates a line that does not follow the XYZ layout.
	ErrMalformed = errors.New("xyz: malformed input")

	// ErrUnknownElement indicates an element symbol outside the supported table.
	ErrUnknownElement = errors.New("xyz: unknown element")
)

// ReadFile reads every frame of the file at path.
func ReadFile(path string) ([]molgraph.Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xyz: %w", err)
	}
	defer f.Close()

	mols, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mols, nil
}

// Read parses every frame from r. Frames are delimited here and each one is
// decoded with goChem's XYZ reader; errors carry the 1-based line number of
// the offending line or of the frame's count line.
func Read(r io.Reader) ([]molgraph.Molecule, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++

		return sc.Text(), true
	}

	var out []molgraph.Molecule
	for {
		text, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		first := line
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("line %d: atom count %q: %w", line, text, ErrMalformed)
		}
		comment, ok := next()
		if !ok {
			return nil, fmt.Errorf("line %d: missing comment line: %w", line+1, ErrMalformed)
		}

		var frame strings.Builder
		fmt.Fprintf(&frame, "%d\n%s\n", n, comment)
		for i := 0; i < n; i++ {
			text, ok := next()
			if !ok {
				return nil, fmt.Errorf("line %d: frame ends after %d of %d atoms: %w", line+1, i, n, ErrMalformed)
			}
			if len(strings.Fields(text)) < 4 {
				return nil, fmt.Errorf("line %d: atom line %q: %w", line, text, ErrMalformed)
			}
			frame.WriteString(text)
			frame.WriteByte('\n')
		}

		m, err := decodeFrame(frame.String(), n)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", first, err)
		}
		m.Name = strings.TrimSpace(comment)
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("xyz: line %d: %w", line+1, err)
	}

	return out, nil
}

// decodeFrame maps one goChem frame onto a Molecule. Unknown elements are
// reported with their 1-based atom position in the frame.
func decodeFrame(frame string, n int) (molgraph.Molecule, error) {
	m := molgraph.Molecule{
		AtomicNumbers: make([]int, n),
		Positions:     make([][3]float64, n),
	}
	if n == 0 {
		return m, nil
	}
	mol, err := chem.XYZRead(strings.NewReader(frame))
	if err != nil {
		return m, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if mol.Len() != n || len(mol.Coords) == 0 {
		return m, fmt.Errorf("decoded %d of %d atoms: %w", mol.Len(), n, ErrMalformed)
	}
	coords := mol.Coords[0]
	for i := 0; i < n; i++ {
		z, err := element(mol.Atom(i).Symbol)
		if err != nil {
			return m, fmt.Errorf("atom %d: %w", i+1, err)
		}
		m.AtomicNumbers[i] = z
		m.Positions[i] = [3]float64{coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)}
	}

	return m, nil
}

func element(field string) (int, error) {
	if z, err := strconv.Atoi(field); err == nil {
		if Symbol(z) == "" {
			return 0, fmt.Errorf("atomic number %d: %w", z, ErrUnknownElement)
		}
		return z, nil
	}
	z, ok := AtomicNumber(field)
	if !ok {
		return 0, fmt.Errorf("symbol %q: %w", field, ErrUnknownElement)
	}

	return z, nil
}
