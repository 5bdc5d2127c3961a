package engine

// Verdict derives the attempt's pass/fail outcome from the pairing mode and
// the link result. It is deliberately not "did everything succeed": in
// one-port mode the slave is commonly unpowered while the master is being
// configured, so a failed LINK still passes once BIND is set; the modules
// auto-connect when both are next powered in data mode. In two-port mode
// both stations are presumed reachable, so a required link that did not
// come up is a failure.
func Verdict(mode Mode, linkRequired, linkOK bool) (passed bool, message string) {
	if linkRequired {
		if linkOK {
			return true, "MASTER/SLAVE paired (LINK OK)."
		}
		return false, "LINK required but did not succeed."
	}
	if linkOK {
		return true, "MASTER/SLAVE paired (LINK OK)."
	}
	if mode == ModeOnePort {
		return true, "MASTER configured (BIND set). LINK may fail in one-port swap if SLAVE is unpowered. " +
			"NEXT: Power both modules in DATA mode (KEY/EN LOW); MASTER will auto-connect to the bound SLAVE."
	}
	return true, "MASTER configured (BIND set); modules will auto-connect once both are powered in DATA mode."
}
