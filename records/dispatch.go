package records

import "github.com/MEDFormat/MEDC-sub005/layout"

// decoderFor is the static type-code dispatch table §9 recommends in
// place of the source's switch-on-ui4: "a static table {type_code ->
// (decoder, printer, validator)}". Unknown codes are not in this table;
// Record.Decode treats a missing entry as "unknown record type, skip the
// body using TotalBytes" (§4.6, §7 Logic errors: warning only).
var decoderFor = map[layout.TypeCode]func() Payload{
	layout.RecordTypeSgmt: func() Payload { return &Sgmt{} },
	layout.RecordTypeStat: func() Payload { return &Stat{} },
	layout.RecordTypeNote: func() Payload { return &Note{} },
	layout.RecordTypeEDFA: func() Payload { return &EDFA{} },
	layout.RecordTypeSeiz: func() Payload { return &Seiz{} },
	layout.RecordTypeSyLg: func() Payload { return &SyLg{} },
	layout.RecordTypeNlxP: func() Payload { return &NlxP{} },
	layout.RecordTypeCurs: func() Payload { return &Curs{} },
	layout.RecordTypeEpoc: func() Payload { return &Epoc{} },
	layout.RecordTypeESti: func() Payload { return &ESti{} },
	layout.RecordTypeCSti: func() Payload { return &CSti{} },
}

// NewPayload returns a zero-valued Payload for tc, or nil if tc is not a
// recognized record type.
func NewPayload(tc layout.TypeCode) Payload {
	ctor, ok := decoderFor[tc]
	if !ok {
		return nil
	}

	return ctor()
}
