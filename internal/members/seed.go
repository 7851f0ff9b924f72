package members

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"chama/internal/core"
)

// DefaultSeed is the group the dashboard starts with when no seed file exists.
func DefaultSeed() []core.Member {
	return []core.Member{
		{ID: 1, Name: "Mary Wanjiku", Phone: "+254712345678", Contribution: core.Money{Shillings: 5000}, Status: core.StatusPaid, LastPayment: core.NewDate(2024, 7, 1)},
		{ID: 2, Name: "John Kamau", Phone: "+254723456789", Contribution: core.Money{Shillings: 3000}, Status: core.StatusPending, LastPayment: core.NewDate(2024, 6, 15)},
		{ID: 3, Name: "Grace Njeri", Phone: "+254734567890", Contribution: core.Money{Shillings: 5000}, Status: core.StatusPaid, LastPayment: core.NewDate(2024, 7, 2)},
		{ID: 4, Name: "Peter Mwangi", Phone: "+254745678901", Contribution: core.Money{Shillings: 0}, Status: core.StatusOverdue, LastPayment: core.NewDate(2024, 5, 20)},
	}
}

// LoadSeed reads members from a CSV file with the columns
// id,name,phone,contribution,status,last_payment. Lines starting with '#'
// are comments. A missing file yields DefaultSeed.
func LoadSeed(path string) ([]core.Member, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSeed(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSeed(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ParseSeed(f)
}

// ParseSeed decodes seed members from r, see LoadSeed for the format.
func ParseSeed(r io.Reader) ([]core.Member, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	var out []core.Member
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "id") {
			continue
		}
		m, err := parseSeedRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("seed record %d: %w", line, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseSeedRecord(rec []string) (core.Member, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return core.Member{}, core.ErrInvalidID
	}
	amount, err := core.ParseAmount(rec[3])
	if err != nil {
		return core.Member{}, err
	}
	status, err := core.ParseStatus(rec[4])
	if err != nil {
		return core.Member{}, err
	}
	last, err := core.ParseDate(rec[5])
	if err != nil {
		return core.Member{}, err
	}
	m := core.Member{
		ID:           id,
		Name:         strings.TrimSpace(rec[1]),
		Phone:        strings.TrimSpace(rec[2]),
		Contribution: amount,
		Status:       status,
		LastPayment:  last,
	}
	return m, m.Validate()
}
