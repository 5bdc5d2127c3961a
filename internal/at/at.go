// Package at defines the AT command dialects spoken by HC-05 and HC-06
// Bluetooth serial modules.
//
// Both families use a line-oriented ASCII protocol, but their command
// grammars are incompatible:
//
//   - HC-05 uses "AT+KEY=value" assignments and supports role selection,
//     inquiry, and explicit pairing (ROLE/CMODE/INQ/PAIR/BIND/LINK).
//   - HC-06 uses bare concatenation ("AT+NAMEfoo", "AT+PIN1234") and maps
//     baud rates to single-character codes ("AT+BAUD4" for 9600).
//
// Successful commands reply with a line containing "OK"; replies are
// otherwise free-form and may span multiple lines. This package only holds
// the command text and response markers; framing and timing live in the
// exchange package.
package at

const (
	// CRLF is the optional two-byte command terminator. HC-05 modules in AT
	// mode require it; most HC-06 firmwares require its absence.
	CRLF = "\r\n"

	// OK is the acknowledgement marker. Matching is substring and
	// case-insensitive because firmwares disagree on framing around it.
	OK = "OK"

	// RoleMarker appears in the AT+ROLE? reply of HC-05 modules and is the
	// family classifier: HC-06 firmwares error out or stay silent instead.
	RoleMarker = "ROLE"
)

// Commands shared by both families.
const (
	CmdPing      = "AT"       // liveness probe
	CmdQueryRole = "AT+ROLE?" // family classification
	CmdQueryAddr = "AT+ADDR?" // read own hardware address
)

// HC-05 commands.
const (
	CmdFactoryReset = "AT+ORGL"   // restore factory defaults, absent on some clones
	CmdRoleSlave    = "AT+ROLE=0" // accept incoming links
	CmdRoleMaster   = "AT+ROLE=1" // initiate links
	CmdConnectFixed = "AT+CMODE=0" // connect only to the bound address
	CmdClearBonded  = "AT+RMAAD"  // drop the bonded-device list
	CmdInitRadio    = "AT+INIT"   // initialize the SPP profile
	CmdInquire      = "AT+INQ"    // broadcast inquiry scan
	CmdReset        = "AT+RESET"  // reboot, frequently silent
)

// AddrPlaceholder marks where a peer address (comma form) is substituted
// into a command at execution time.
const AddrPlaceholder = "{addr}"
