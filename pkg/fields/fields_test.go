package fields

import (
	"io"
	"regexp"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietExtractor(cfg Config) *Extractor {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(cfg, WithLogger(l))
}

func TestCourtLongestMatch(t *testing.T) {
	text := "東京地方裁判所　御中\n令和6年(ワ)第1234号\n東京地方裁判所民事第１部 係属"
	cands := collectAll(courtMatchers(), text)
	require.Len(t, cands, 2)

	best, ok := longest(cands)
	require.True(t, ok)
	assert.Equal(t, "東京地方裁判所民事第1部", best.Value)
	assert.Equal(t, "東京地方裁判所", courtKey(best.Value))
}

func TestCourtSpacedAndBranch(t *testing.T) {
	cands := collectAll(courtMatchers(), "横 浜 地方 裁判所 川崎 支部")
	require.Len(t, cands, 1)
	assert.Equal(t, "横浜地方裁判所川崎支部", cands[0].Value)
}

func TestCourtFaxLookup(t *testing.T) {
	cfg := Config{CourtFaxes: map[string]string{"東京地方裁判所民事第３部": "03（3580）0000"}}.clone()
	assert.Equal(t, "03-3580-0000", cfg.lookupCourtFax("東京地方裁判所民事第1部"))
	assert.Empty(t, cfg.lookupCourtFax("東京地方裁判所立川支部"))
}

func TestCaseNumberVariants(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		matcher string
	}{
		{"strict full-width", "令和６年（ワ）第１２３４号", "case-number-strict"},
		{"token gap", "令和6年 (ワ) 第1234号", "case-number-token-gap"},
		{"spaces inside tokens", "令 和 6 年 （ ワ ） 第 1 2 3 4 号", "case-number-loose-gap"},
		{"line break", "令和\n6年(ワ)第12\n34号", "case-number-every-rune"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := firstMatch(caseNumberMatchers(), tt.text)
			require.Len(t, cands, 1)
			assert.Equal(t, tt.matcher, cands[0].Matcher)
			assert.Equal(t, "令和6年(ワ)第1234号", cands[0].Value)

			again := firstMatch(caseNumberMatchers(), cands[0].Value)
			require.Len(t, again, 1)
			assert.Equal(t, cands[0].Value, again[0].Value)
		})
	}
}

func TestCaseNumberFallback(t *testing.T) {
	t.Run("default symbol is a guess", func(t *testing.T) {
		text := "令和5年9月1日\n事件の表示 第123号 損害賠償請求事件\n令和6年1月10日"
		c, guessed, ok := caseNumberFallback(text)
		require.True(t, ok)
		assert.True(t, guessed)
		assert.Equal(t, "令和5年(ワ)第123号", c.Value)
	})
	t.Run("nearby symbol", func(t *testing.T) {
		text := "令和5年9月1日\n事件の表示 （ネ）第45号"
		c, guessed, ok := caseNumberFallback(text)
		require.True(t, ok)
		assert.False(t, guessed)
		assert.Equal(t, "令和5年(ネ)第45号", c.Value)
	})
	t.Run("first year of an era", func(t *testing.T) {
		c, _, ok := caseNumberFallback("令和元年\n令和3年\n事件番号 第7号")
		require.True(t, ok)
		assert.Equal(t, "令和元年(ワ)第7号", c.Value)
	})
	t.Run("no era year", func(t *testing.T) {
		_, _, ok := caseNumberFallback("事件の表示 第123号")
		assert.False(t, ok)
	})
	t.Run("no label", func(t *testing.T) {
		_, _, ok := caseNumberFallback("令和5年 第123号")
		assert.False(t, ok)
	})
}

func TestCaseName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"line break before suffix", "令和6年(ワ)第1234号 損害賠償\n請求事件", "損害賠償請求事件"},
		{"after case number", "令和6年(ワ)第1234号\n貸金返還請求事件", "貸金返還請求事件"},
		{"labeled", "事件名：建物明渡請求事件", "建物明渡請求事件"},
		{"no claim suffix", "当事者 離婚等事件", "離婚等事件"},
		{"display label line", "東京地方裁判所民事第1部 御中\n事件の表示 令和6年(ワ)第1234号 損害賠償請求事件", "損害賠償請求事件"},
		{"name label line", "原告訴訟代理人弁護士 丙田三郎\n事件名：建物明渡請求事件", "建物明渡請求事件"},
		{"number label line", "送付書\n事件番号 令和6年(ワ)第1234号\n貸金返還請求事件", "貸金返還請求事件"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := firstMatch(caseNameMatchers(), tt.text)
			require.NotEmpty(t, cands)
			assert.Equal(t, tt.want, cands[0].Value)
		})
	}
}

func TestCleanCaseNameRejectsReferences(t *testing.T) {
	assert.Empty(t, cleanCaseName("上記事件"))
	assert.Empty(t, cleanCaseName("事件"))
}

func TestPartiesSection(t *testing.T) {
	text := "当事者\n原告訴訟代理人 弁護士 甲野一郎\n原告　山田太郎\n被告　株式会社鈴木商事　外２名\n"
	e := quietExtractor(Config{})
	info := e.Extract(text)

	assert.Equal(t, "山田太郎", info.PlaintiffName)
	assert.Empty(t, info.PlaintiffOthers)
	assert.Equal(t, "株式会社鈴木商事", info.DefendantName)
	assert.Equal(t, "外2名", info.DefendantOthers)
	assert.Equal(t, "株式会社鈴木商事 外2名", info.DefendantDisplay())
}

func TestPartiesFallbacks(t *testing.T) {
	t.Run("bracketed", func(t *testing.T) {
		cands := firstMatch(partyMatchers(plaintiffPatterns), "原告訴訟代理人弁護士 甲野一郎\n原告「山田太郎」")
		require.Len(t, cands, 1)
		assert.Equal(t, "plaintiff-bracketed", cands[0].Matcher)
		assert.Equal(t, party{name: "山田太郎"}, decodeParty(cands[0]))
	})
	t.Run("corrupted label glyph", func(t *testing.T) {
		cands := firstMatch(partyMatchers(defendantPatterns), "破吉 佐藤花子ほか3名")
		require.Len(t, cands, 1)
		assert.Equal(t, party{name: "佐藤花子", others: "ほか3名"}, decodeParty(cands[0]))
	})
	t.Run("counsel only", func(t *testing.T) {
		assert.Empty(t, firstMatch(partyMatchers(plaintiffPatterns), "原告訴訟代理人 弁護士 甲野一郎"))
	})
}

func TestCounselTrimsTrailingNoise(t *testing.T) {
	text := "原告訴訟代理人弁護士　石 口 俊 一 知\n\n弁護士 石口 先生\n"
	c, ok := pickCounsel(collectAll(counselMatchers(Config{}), text))
	require.True(t, ok)
	assert.Equal(t, "石口俊一", c.Value)
}

func TestCounselStopsAtTrailingText(t *testing.T) {
	for _, tail := range []string{"　ほか2名", "　外2名", "　電話03-1234-5678", ""} {
		text := "原告訴訟代理人弁護士　山田太郎" + tail
		c, ok := pickCounsel(collectAll(counselMatchers(Config{}), text))
		require.True(t, ok, text)
		assert.Equal(t, "山田太郎", c.Value, text)
	}
	c, ok := pickCounsel(collectAll(counselMatchers(Config{}), "原告訴訟代理人弁護士　原田一郎"))
	require.True(t, ok)
	assert.Equal(t, "原田一郎", c.Value)
}

func TestCounselExcludesOwnNames(t *testing.T) {
	cfg := Config{OwnLawyerNames: []string{"乙野 次郎"}}.clone()
	text := "弁護士 乙野次郎 宛\n原告訴訟代理人弁護士 丙田三郎"
	c, ok := pickCounsel(collectAll(counselMatchers(cfg), text))
	require.True(t, ok)
	assert.Equal(t, "丙田三郎", c.Value)
	assert.Equal(t, "counsel-plaintiff-litigation", c.Matcher)
}

func TestCounselSkipsDefendantLines(t *testing.T) {
	cands := firstMatch(counselMatchers(Config{})[1:2], "被告訴訟代理人 弁護士 丁村四郎")
	assert.Empty(t, cands)
}

func TestCleanCounselName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"山田 太郎 先生", "山田太郎"},
		{"山田太郎 FAX 03-1234-5678", "山田太郎"},
		{"山田太郎先生御机下", "山田太郎"},
		{"山田太郎　ほか2名", "山田太郎"},
		{"山田太郎　外２名", "山田太郎"},
		{"山田太郎　電話03-1234-5678", "山田太郎"},
		{"原田一郎", "原田一郎"},
		{"代田健", "代田健"},
		{"原告代理人", ""},
		{"法律事務所", ""},
		{"山", ""},
		{"寿限無寿限無五劫", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanCounselName(tt.raw), tt.raw)
	}
}

func TestRankCounselPrefersTypicalLength(t *testing.T) {
	ranked := rankCounsel([]Candidate{
		{Value: "山田", Priority: 2},
		{Value: "長谷川太郎", Priority: 2},
		{Value: "山田太郎", Priority: 2},
		{Value: "山田太郎", Priority: 4},
	})
	require.Len(t, ranked, 3)
	assert.Equal(t, "山田太郎", ranked[0].Value)
	assert.Equal(t, 2, ranked[0].Priority)
	assert.Equal(t, "長谷川太郎", ranked[1].Value)
}

func TestFaxRoles(t *testing.T) {
	text := "被告訴訟代理人 FAX 03-0000-0000\n原告訴訟代理人 FAX 06-1111-1111"
	res := Config{}.classifyFaxes(text)
	assert.Empty(t, res.court)
	assert.Equal(t, "06-1111-1111", res.counsel)
	require.Len(t, res.decisions, 2)
	assert.Equal(t, RoleSkipped, res.decisions[0].Role)
	assert.Equal(t, RoleCounsel, res.decisions[1].Role)
}

func TestFaxParentheticalLabels(t *testing.T) {
	cfg := Config{CourtFaxes: map[string]string{"大阪地方裁判所": "06-6363-0000"}}.clone()
	text := "甲野法律事務所（ＦＡＸ ０６－２２２２－３３３３）\n大阪地方裁判所第2民事部(FAX 06-6363-1234)\n送付先(FAX 06-6363-0000)"
	res := cfg.classifyFaxes(text)
	assert.Equal(t, "06-2222-3333", res.counsel)
	assert.Equal(t, "06-6363-1234", res.court)
	require.Len(t, res.decisions, 3)
	assert.Equal(t, RoleSkipped, res.decisions[2].Role)
}

func TestFaxOwnOffice(t *testing.T) {
	cfg := Config{
		OwnFaxNumbers:  []string{"06-9999-0000"},
		OwnFaxPatterns: []*regexp.Regexp{regexp.MustCompile(`^092-`)},
	}.clone()
	text := "FAX 06(9999)0000\nFAX 092-111-2222\nFAX 06-2222-3333"
	res := cfg.classifyFaxes(text)
	assert.Equal(t, "06-2222-3333", res.counsel)
	assert.Equal(t, RoleOwn, res.decisions[0].Role)
	assert.Equal(t, RoleOwn, res.decisions[1].Role)
}

func TestFaxNumberLabel(t *testing.T) {
	text := "原告訴訟代理人弁護士 丙田三郎\nFAX番号：06-1111-1111"
	res := Config{}.classifyFaxes(text)
	assert.Equal(t, "06-1111-1111", res.counsel)
	require.Len(t, res.decisions, 1)
	assert.Equal(t, RoleCounsel, res.decisions[0].Role)

	res = Config{}.classifyFaxes("丙田法律事務所(ファックス番号 06-2222-3333)")
	assert.Equal(t, "06-2222-3333", res.counsel)
}

func TestFaxRequireCounselProximity(t *testing.T) {
	text := "FAX 06-2222-3333"
	assert.Equal(t, "06-2222-3333", Config{}.classifyFaxes(text).counsel)
	assert.Empty(t, Config{RequireCounselProximity: true}.classifyFaxes(text).counsel)
}

func TestExtract(t *testing.T) {
	cfg := Config{
		CourtFaxes:     map[string]string{"東京地方裁判所": "03-3580-0000"},
		OwnLawyerNames: []string{"乙野次郎"},
		OwnFaxNumbers:  []string{"03-9999-0000"},
	}
	text := "東京地方裁判所民事第１部　御中\r\n" +
		"令和６年（ワ）第１２３４号　損害賠償請求事件\r\n" +
		"原告　山田太郎\r\n" +
		"被告　株式会社鈴木商事\r\n" +
		"原告訴訟代理人弁護士　丙田三郎　FAX 06-1111-1111\r\n" +
		"被告訴訟代理人弁護士　乙野次郎　FAX 03-9999-0000\r\n"

	info := quietExtractor(cfg).Extract(text)
	assert.Equal(t, DocumentInfo{
		CourtName:          "東京地方裁判所民事第1部",
		CourtFax:           "03-3580-0000",
		CaseNumber:         "令和6年(ワ)第1234号",
		CaseName:           "損害賠償請求事件",
		PlaintiffName:      "山田太郎",
		DefendantName:      "株式会社鈴木商事",
		PlaintiffLawyer:    "丙田三郎",
		PlaintiffLawyerFax: "06-1111-1111",
	}, info)
	assert.Empty(t, info.Warnings())
}

func TestExtractPdfFaxOverridesDictionary(t *testing.T) {
	cfg := Config{CourtFaxes: map[string]string{"東京地方裁判所": "03-3580-0000"}}
	text := "東京地方裁判所民事第１部（FAX 03-3581-5555）"
	info := quietExtractor(cfg).Extract(text)
	assert.Equal(t, "03-3581-5555", info.CourtFaxFromPdf)
	assert.Equal(t, "03-3581-5555", info.CourtFax)
}

func TestExplainRecordsCandidates(t *testing.T) {
	text := "令和5年9月1日\n事件の表示 第123号"
	tr := quietExtractor(Config{}).Explain(text)
	assert.True(t, tr.Info.CaseNumberGuessed)
	require.Len(t, tr.Candidates["caseNumber"], 1)
	assert.Equal(t, "case-display-serial", tr.Candidates["caseNumber"][0].Matcher)
	assert.Len(t, tr.Info.Warnings(), 1)
}

func TestExtractEmpty(t *testing.T) {
	assert.Equal(t, DocumentInfo{}, quietExtractor(Config{}).Extract(""))
}

func TestConfigIsCopied(t *testing.T) {
	faxes := map[string]string{"東京地方裁判所": "03-3580-0000"}
	e := quietExtractor(Config{CourtFaxes: faxes})
	faxes["東京地方裁判所"] = "03-0000-0000"
	assert.Equal(t, "03-3580-0000", e.Extract("東京地方裁判所").CourtFax)
}
