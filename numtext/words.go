// Word tables for Russian cardinal numbers.
package numtext

const wordZero = "ноль"

// rank orders the parts of a compound number. A compound lists parts in
// strictly descending rank, and a teen ends the number.
type rank int

const (
	rankOnes rank = iota + 1
	rankTeens
	rankTens
	rankHundreds
)

type numWord struct {
	value int
	rank  rank
}

// wordValues maps each cardinal word to its value and rank.
var wordValues = map[string]numWord{
	"один": {1, rankOnes}, "одна": {1, rankOnes}, "одно": {1, rankOnes},
	"два": {2, rankOnes}, "две": {2, rankOnes},
	"три":    {3, rankOnes},
	"четыре": {4, rankOnes},
	"пять":   {5, rankOnes},
	"шесть":  {6, rankOnes},
	"семь":   {7, rankOnes},
	"восемь": {8, rankOnes},
	"девять": {9, rankOnes},

	"десять":       {10, rankTeens},
	"одиннадцать":  {11, rankTeens},
	"двенадцать":   {12, rankTeens},
	"тринадцать":   {13, rankTeens},
	"четырнадцать": {14, rankTeens},
	"пятнадцать":   {15, rankTeens},
	"шестнадцать":  {16, rankTeens},
	"семнадцать":   {17, rankTeens},
	"восемнадцать": {18, rankTeens},
	"девятнадцать": {19, rankTeens},

	"двадцать":    {20, rankTens},
	"тридцать":    {30, rankTens},
	"сорок":       {40, rankTens},
	"пятьдесят":   {50, rankTens},
	"шестьдесят":  {60, rankTens},
	"семьдесят":   {70, rankTens},
	"восемьдесят": {80, rankTens},
	"девяносто":   {90, rankTens},

	"сто":       {100, rankHundreds},
	"двести":    {200, rankHundreds},
	"триста":    {300, rankHundreds},
	"четыреста": {400, rankHundreds},
	"пятьсот":   {500, rankHundreds},
	"шестьсот":  {600, rankHundreds},
	"семьсот":   {700, rankHundreds},
	"восемьсот": {800, rankHundreds},
	"девятьсот": {900, rankHundreds},
}

var ones = [10]string{
	wordZero, "один", "два", "три", "четыре",
	"пять", "шесть", "семь", "восемь", "девять",
}

// teens is indexed by n-10 for 10–19.
var teens = [10]string{
	"десять", "одиннадцать", "двенадцать", "тринадцать", "четырнадцать",
	"пятнадцать", "шестнадцать", "семнадцать", "восемнадцать", "девятнадцать",
}

// tens is indexed by tens digit (2–9); indexes 0 and 1 are unused.
var tens = [10]string{
	"", "",
	"двадцать", "тридцать", "сорок", "пятьдесят",
	"шестьдесят", "семьдесят", "восемьдесят", "девяносто",
}

// hundreds is indexed by hundreds digit (1–9); index 0 is unused.
var hundreds = [10]string{
	"",
	"сто", "двести", "триста", "четыреста", "пятьсот",
	"шестьсот", "семьсот", "восемьсот", "девятьсот",
}
