package grammars

import (
	"strings"

	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/pattern"
)

const (
	rosStatements = "foreach do while for if from to step else on-error and or not in"
	rosGlobals    = "global local beep delay put len typeof pick log time set find environment terminal error execute " +
		"parse resolve toarray tobool toid toip toip6 tonum tostr totime"
	rosCommands = "add remove enable disable set get print export edit find run debug error info warning"
	rosLiterals = "true false yes no nothing nil null"
	rosObjects  = "traffic-flow traffic-generator firewall scheduler aaa accounting address-list address align area " +
		"bandwidth-server bfd bgp bridge client clock community config connection console customer default dhcp-client " +
		"dhcp-server discovery dns e-mail ethernet filter firmware gps graphing group hardware health hotspot identity " +
		"igmp-proxy incoming instance interface ip ipsec ipv6 irq l2tp-server lcd ldp logging mac-server mac-winbox " +
		"mangle manual mirror mme mpls nat nd neighbor network note ntp ospf ospf-v3 ovpn-server page peer pim ping " +
		"policy pool port ppp pppoe-client pptp-server prefix profile proposal proxy queue radius resource rip ripng " +
		"route routing screen script security-profiles server service service-port settings shares smb sms sniffer " +
		"snmp snooper socks sstp-server system tool tracking type upgrade upnp user-manager users user vlan secret " +
		"vrrp watchdog web-access wireless pptp pppoe lan wan layer7-protocol lease simple raw"
)

// colonPrefixed returns space separated words, each prefixed with a colon.
func colonPrefixed(words string) string {
	list := strings.Fields(words)
	for i, w := range list {
		list[i] = ":" + w
	}
	return strings.Join(list, " ")
}

// alternation returns a capturing group matching any of space separated words.
func alternation(words string) string {
	return pattern.Group(pattern.Raw(strings.Join(strings.Fields(words), "|"))).Source()
}

// RouterOS returns the grammar of MikroTik RouterOS scripts.
func RouterOS() *grammar.Grammar {
	return &grammar.Grammar{
		Name:            "routeros",
		Aliases:         []string{"mikrotik"},
		CaseInsensitive: true,
		Keywords: &grammar.Keywords{
			Pattern: `:?[\w-]+`,
			Categories: map[string][]string{
				"literal": {rosLiterals},
				"keyword": {rosStatements, colonPrefixed(rosStatements), colonPrefixed(rosGlobals)},
			},
		},
		Modes: map[string]*grammar.Mode{
			"var": {
				Category: "variable",
				Variants: []*grammar.Mode{{Begin: `\$[\w\d#@][\w\d_]*`}, {Begin: `\$\{(.*?)\}`}},
			},
			"quoted": {
				Category: "string",
				Begin:    `"`,
				End:      `"`,
				Contains: []*grammar.Mode{
					grammar.BackslashEscape(),
					grammar.Ref("var"),
					{Category: "variable", Begin: `\$\(`, End: `\)`, Contains: []*grammar.Mode{grammar.BackslashEscape()}},
				},
			},
			"apos": {Category: "string", Begin: `'`, End: `'`},
		},
		Contains: []*grammar.Mode{
			{
				Name:     "foreign comment",
				Variants: []*grammar.Mode{{Begin: `/\*`, End: `\*/`}, {Begin: `//`, End: `$`}, {Begin: `</`, End: `>`}},
				Illegal:  `.`,
			},
			grammar.Comment(`^#`, `$`),
			grammar.Ref("quoted"),
			grammar.Ref("apos"),
			grammar.Ref("var"),
			{
				Begin:       `[\w-]+=([^\s{}[\]()>]+)`,
				ReturnBegin: true,
				Contains: []*grammar.Mode{
					{Category: "attribute", Begin: `[^=]+`},
					{
						Begin:          `=`,
						EndsWithParent: true,
						Contains: []*grammar.Mode{
							grammar.Ref("quoted"),
							grammar.Ref("apos"),
							grammar.Ref("var"),
							{Category: "literal", Begin: `\b` + alternation(rosLiterals) + `\b`},
							{Begin: `("[^"]*"|[^\s{}[\]]+)`},
						},
					},
				},
			},
			{Category: "number", Begin: `\*[0-9a-fA-F]+`},
			{
				Begin:       `\b` + alternation(rosCommands) + `([\s[(\]|])`,
				ReturnBegin: true,
				Contains:    []*grammar.Mode{{Category: "builtin-name", Begin: `\w+`}},
			},
			{
				Category: "built_in",
				Variants: []*grammar.Mode{
					{Begin: `(\.\./|/|\s)(` + alternation(rosObjects) + `;?\s)+`},
					{Begin: `\.\.`},
				},
			},
		},
	}
}
