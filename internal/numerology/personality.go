package numerology

// MainPersonality evaluates the legacy digit pyramid over the eight raw
// digits of the date and returns its apex. The apex can exceed 9 (10, 11
// or 22) because AddRule only collapses a sum once.
func MainPersonality(d BirthDate) int {
	g := d.digits()
	day := AddRule(g[0], g[1])
	month := AddRule(g[2], g[3])
	century := AddRule(g[4], g[5])
	decade := AddRule(g[6], g[7])

	dayMonth := AddRule(day, month)
	year := AddRule(century, decade)
	return AddRule(dayMonth, year)
}
