package file

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sheikh-saqib/account-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// maxLineSize bounds a single record line. Longer lines are drained and
// counted as skipped.
const maxLineSize = 1 << 20

// DecodeRecords reads one "<identifier> <secret> <balance>" record per line.
//
// Lines that do not split into exactly those three fields, or whose secret or
// balance does not parse, are skipped and counted; decoding carries on at the
// next line. Blank lines are ignored and not counted. Only a read failure is
// returned as an error.
func DecodeRecords(r io.Reader, maxIdentLen int) (records []models.Record, skipped int, err error) {
	records = make([]models.Record, 0)
	br := bufio.NewReader(r)

	for {
		line, tooLong, readErr := readLine(br)
		switch text := strings.TrimSpace(string(line)); {
		case tooLong:
			skipped++
		case text == "":
		default:
			rec, ok := decodeLine(text)
			if !ok {
				skipped++
				break
			}
			rec.Identifier = models.NormalizeIdentifier(rec.Identifier, maxIdentLen)
			records = append(records, rec)
		}

		if readErr == io.EOF {
			return records, skipped, nil
		}
		if readErr != nil {
			return records, skipped, fmt.Errorf("error reading records: %w", readErr)
		}
	}
}

// readLine returns the next line including its newline. A line longer than
// maxLineSize is read to its end but returned empty with tooLong set.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if readErr != bufio.ErrBufferFull {
			return line, tooLong, readErr
		}
	}
}

func decodeLine(line string) (models.Record, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return models.Record{}, false
	}
	secret, err := strconv.Atoi(fields[1])
	if err != nil {
		return models.Record{}, false
	}
	balance, err := decimal.NewFromString(fields[2])
	if err != nil || balance.IsNegative() || !models.AmountInRange(balance) {
		return models.Record{}, false
	}
	return models.Record{Identifier: fields[0], Secret: secret, Balance: balance.Round(2)}, true
}

// EncodeRecord writes a single record line with the balance fixed to 2 decimals.
func EncodeRecord(w io.Writer, r models.Record) error {
	if _, err := fmt.Fprintf(w, "%s %d %s\n", r.Identifier, r.Secret, r.Balance.StringFixed(2)); err != nil {
		return fmt.Errorf("failed to write record %q: %w", r.Identifier, err)
	}
	return nil
}

// EncodeRecords writes every record in order, one per line.
func EncodeRecords(w io.Writer, records []models.Record) error {
	for _, r := range records {
		if err := EncodeRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}
