// Package pbn reads Portable Bridge Notation deal files and renders each
// board as a LIN hand record.
package pbn

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoDeals is returned when the input holds no [Deal] tag.
var ErrNoDeals = errors.New("no deals found in PBN input")

// Seats in PBN (clockwise from North) order.
var seats = []string{"N", "E", "S", "W"}

// linSeat is the LIN seat number; md lists hands South, West, North, East.
var linSeat = map[string]int{"S": 1, "W": 2, "N": 3, "E": 4}

var vulnerability = map[string]string{
	"None": "o",
	"Love": "o",
	"-":    "o",
	"NS":   "n",
	"EW":   "e",
	"All":  "b",
	"Both": "b",
}

var (
	boardTag  = regexp.MustCompile(`^\[Board "(\d+)"\]`)
	dealerTag = regexp.MustCompile(`^\[Dealer "([NESW])"\]`)
	vulnTag   = regexp.MustCompile(`^\[Vulnerable "(.+)"\]`)
	dealTag   = regexp.MustCompile(`^\[Deal "([NESW]):(.+)"\]`)
)

// Board is one deal read from a PBN file.
type Board struct {
	// Number is the board number, 0 when the file gives none.
	Number int
	// Dealer is the dealing seat (N, E, S or W), empty when unknown.
	Dealer string
	// Vulnerability is the LIN sv code: o, n, e or b.
	Vulnerability string
	// Hands are LIN hand strings (S..H..D..C..) in South, West, North, East order.
	Hands [4]string
}

// Parse reads every board that carries a deal. Tags before the first
// [Board] tag belong to an unnumbered board.
func Parse(r io.Reader) ([]Board, error) {
	var (
		boards  []Board
		current Board
		hasDeal bool
	)
	flush := func() {
		if hasDeal {
			boards = append(boards, current)
		}
		current = Board{}
		hasDeal = false
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, `[Board "`):
			flush()
			if m := boardTag.FindStringSubmatch(line); m != nil {
				current.Number, _ = strconv.Atoi(m[1])
			}
		case strings.HasPrefix(line, `[Dealer "`):
			if m := dealerTag.FindStringSubmatch(line); m != nil {
				current.Dealer = m[1]
			}
		case strings.HasPrefix(line, `[Vulnerable "`):
			if m := vulnTag.FindStringSubmatch(line); m != nil {
				current.Vulnerability = vulnerability[m[1]]
			}
		case strings.HasPrefix(line, `[Deal "`):
			if m := dealTag.FindStringSubmatch(line); m != nil {
				current.Hands = convertDeal(m[2], m[1])
				hasDeal = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PBN: %w", err)
	}
	flush()

	if len(boards) == 0 {
		return nil, ErrNoDeals
	}
	return boards, nil
}

// convertDeal turns "N:KQ3.A42.K98.Q76 ..." into LIN hands. The PBN hands
// run clockwise from firstSeat; an unknown hand ("-") or one without four
// suits becomes an empty string.
func convertDeal(deal, firstSeat string) [4]string {
	start := 0
	for i, s := range seats {
		if s == firstSeat {
			start = i
		}
	}

	var hands [4]string
	for i, hand := range strings.Fields(deal) {
		if i >= len(seats) {
			break
		}
		seat := seats[(start+i)%len(seats)]
		hands[linSeat[seat]-1] = linHand(hand)
	}
	return hands
}

func linHand(hand string) string {
	suits := strings.Split(hand, ".")
	if len(suits) != 4 {
		return ""
	}
	return "S" + suits[0] + "H" + suits[1] + "D" + suits[2] + "C" + suits[3]
}

// DealerSeat returns the dealer, falling back to the standard rotation
// for numbered boards (board 1 deals North).
func (b Board) DealerSeat() string {
	if b.Dealer != "" {
		return b.Dealer
	}
	if b.Number > 0 {
		return seats[(b.Number-1)%len(seats)]
	}
	return "N"
}

// LIN renders the board as a single-line hand record.
func (b Board) LIN() string {
	vuln := b.Vulnerability
	if vuln == "" {
		vuln = "o"
	}

	var sb strings.Builder
	if b.Number > 0 {
		fmt.Fprintf(&sb, "qx|o%d|", b.Number)
	}
	fmt.Fprintf(&sb, "md|%d%s|sv|%s|", linSeat[b.DealerSeat()], strings.Join(b.Hands[:], ","), vuln)
	if b.Number > 0 {
		fmt.Fprintf(&sb, "ah|Board %d|", b.Number)
	}
	sb.WriteString("pg||")
	return sb.String()
}

// LINRecords renders every board, one record per line.
func LINRecords(boards []Board) string {
	records := make([]string, 0, len(boards))
	for _, b := range boards {
		records = append(records, b.LIN())
	}
	return strings.Join(records, "\n")
}
