package parser

import "strings"

// Kind identifies the record kind of a line.
type Kind uint8

const (
	// Special kinds
	UNKNOWN Kind = iota
	EMPTY

	// Header and identity
	FLAGGA  // #FLAGGA
	KSUMMA  // #KSUMMA
	PROGRAM // #PROGRAM
	FORMAT  // #FORMAT
	GEN     // #GEN
	SIETYP  // #SIETYP
	PROSA   // #PROSA

	// Company
	FNR    // #FNR
	ORGNR  // #ORGNR
	FNAMN  // #FNAMN
	ADRESS // #ADRESS
	FTYP   // #FTYP
	BKOD   // #BKOD

	// Document settings
	KPTYP   // #KPTYP
	VALUTA  // #VALUTA
	TAXAR   // #TAXAR
	OMFATTN // #OMFATTN
	RAR     // #RAR

	// Dimensions and objects
	DIM      // #DIM
	UNDERDIM // #UNDERDIM
	OBJEKT   // #OBJEKT

	// Chart of accounts
	KONTO // #KONTO
	ENHET // #ENHET
	KTYP  // #KTYP
	SRU   // #SRU

	// Balances and results
	IB      // #IB
	UB      // #UB
	OIB     // #OIB
	OUB     // #OUB
	PBUDGET // #PBUDGET
	PSALDO  // #PSALDO
	RES     // #RES

	// Vouchers
	VER    // #VER
	TRANS  // #TRANS
	RTRANS // #RTRANS
	BTRANS // #BTRANS
	LBRACE // {
	RBRACE // }
)

var kindNames = map[Kind]string{
	UNKNOWN: "UNKNOWN",
	EMPTY:   "EMPTY",

	FLAGGA:  "#FLAGGA",
	KSUMMA:  "#KSUMMA",
	PROGRAM: "#PROGRAM",
	FORMAT:  "#FORMAT",
	GEN:     "#GEN",
	SIETYP:  "#SIETYP",
	PROSA:   "#PROSA",

	FNR:    "#FNR",
	ORGNR:  "#ORGNR",
	FNAMN:  "#FNAMN",
	ADRESS: "#ADRESS",
	FTYP:   "#FTYP",
	BKOD:   "#BKOD",

	KPTYP:   "#KPTYP",
	VALUTA:  "#VALUTA",
	TAXAR:   "#TAXAR",
	OMFATTN: "#OMFATTN",
	RAR:     "#RAR",

	DIM:      "#DIM",
	UNDERDIM: "#UNDERDIM",
	OBJEKT:   "#OBJEKT",

	KONTO: "#KONTO",
	ENHET: "#ENHET",
	KTYP:  "#KTYP",
	SRU:   "#SRU",

	IB:      "#IB",
	UB:      "#UB",
	OIB:     "#OIB",
	OUB:     "#OUB",
	PBUDGET: "#PBUDGET",
	PSALDO:  "#PSALDO",
	RES:     "#RES",

	VER:    "#VER",
	TRANS:  "#TRANS",
	RTRANS: "#RTRANS",
	BTRANS: "#BTRANS",
	LBRACE: "{",
	RBRACE: "}",
}

var kindsByTag = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if k == UNKNOWN || k == EMPTY {
			continue
		}
		m[name] = k
	}
	m[""] = EMPTY
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// LookupKind returns the kind of a record tag. Tags are matched
// case-insensitively.
func LookupKind(tag string) Kind {
	if k, ok := kindsByTag[tag]; ok {
		return k
	}
	if k, ok := kindsByTag[strings.ToUpper(tag)]; ok {
		return k
	}
	return UNKNOWN
}
