package ast

// Company holds the company identity block.
type Company struct {
	Code      string // #FNR
	OrgNumber string // #ORGNR
	Name      string // #FNAMN
	Type      string // #FTYP
	Industry  string // #BKOD (SNI code)
	Address   Address
}

// Address is the contact block of #ADRESS.
type Address struct {
	Contact    string
	Street     string
	PostalCity string
	Phone      string
}

// IsZero reports whether no address field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// OrganisationTypes maps #FTYP codes to the legal entity type they denote.
var OrganisationTypes = map[string]string{
	"AB":  "Aktiebolag.",
	"E":   "Enskild näringsidkare.",
	"HB":  "Handelsbolag.",
	"KB":  "Kommanditbolag.",
	"EK":  "Ekonomisk förening.",
	"KHF": "Kooperativ hyresrättsförening.",
	"BRF": "Bostadsrättsförening.",
	"BF":  "Bostadsförening.",
	"SF":  "Sambruksförening.",
	"I":   "Ideell förening som bedriver näring.",
	"S":   "Stiftelse som bedriver näring.",
	"FL":  "Filial till utländskt bolag.",
	"BAB": "Bankaktiebolag.",
	"MB":  "Medlemsbank.",
	"SB":  "Sparbank.",
	"BFL": "Utländsk banks filial.",
	"FAB": "Försäkringsaktiebolag.",
	"OFB": "Ömsesidigt försäkringsbolag.",
	"SE":  "Europabolag.",
	"SCE": "Europakooperativ.",
	"TSF": "Trossamfund.",
	"X":   "Annan företagsform.",
}

// OrgTypeDescription returns the description of the company's organisation
// type, or an empty string for unknown codes.
func (c Company) OrgTypeDescription() string {
	return OrganisationTypes[c.Type]
}
