package api

// Country is one entry of the /ulkeler listing.
type Country struct {
	UlkeID    string `json:"UlkeID"`
	UlkeAdi   string `json:"UlkeAdi"`   // e.g. "TURKIYE"
	UlkeAdiEn string `json:"UlkeAdiEn"` // e.g. "TURKEY"
}

// City is one entry of the /sehirler/{country} listing.
type City struct {
	SehirID    string `json:"SehirID"`
	SehirAdi   string `json:"SehirAdi"`
	SehirAdiEn string `json:"SehirAdiEn"`
}

// District is one entry of the /ilceler/{city} listing.
// The first district of a city is used as the city center.
type District struct {
	IlceID    string `json:"IlceID"`
	IlceAdi   string `json:"IlceAdi"`
	IlceAdiEn string `json:"IlceAdiEn"`
}

// TimeRow holds one calendar day of prayer times for a district.
// All clock fields are "HH:MM" strings in Turkish local time.
type TimeRow struct {
	Imsak  string `json:"Imsak"`  // pre-dawn, start of the fast (Sahur ends)
	Gunes  string `json:"Gunes"`  // sunrise
	Ogle   string `json:"Ogle"`   // noon
	Ikindi string `json:"Ikindi"` // afternoon
	Aksam  string `json:"Aksam"`  // sunset, end of the fast (Iftar)
	Yatsi  string `json:"Yatsi"`  // night

	MiladiTarihKisa string `json:"MiladiTarihKisa"` // "15.03.2024"
	MiladiTarihUzun string `json:"MiladiTarihUzun"`
	HicriTarihKisa  string `json:"HicriTarihKisa"`
	HicriTarihUzun  string `json:"HicriTarihUzun"`
	AyinSekliURL    string `json:"AyinSekliURL"`
	KibleSaati      string `json:"KibleSaati"`
	GunesDogus      string `json:"GunesDogus"`
	GunesBatis      string `json:"GunesBatis"`
}

// MonthlyTable is the ordered list of daily rows returned by /vakitler.
// Index 0 is "today" relative to the moment of the fetch and index 1 is
// "tomorrow". Rows are addressed by position, never by date.
type MonthlyTable []TimeRow

// Today returns the first row. ok is false when the table is empty.
func (t MonthlyTable) Today() (row TimeRow, ok bool) {
	if len(t) == 0 {
		return TimeRow{}, false
	}
	return t[0], true
}

// Tomorrow returns the second row, or nil when the upstream sent fewer than two.
func (t MonthlyTable) Tomorrow() *TimeRow {
	if len(t) < 2 {
		return nil
	}
	row := t[1]
	return &row
}
