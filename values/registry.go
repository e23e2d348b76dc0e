// Copyright 2025 Tamás Gulácsi
//
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package values

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Registry maps a semantic-type token to a value thunk: small generators
// drawing from one math/rand/v2 source, so a seeded Registry replays the
// same sequence of values.
type Registry struct {
	rng        *rand.Rand
	generators map[string]func() string
}

// NewRegistry builds a Registry. seed == nil selects a non-reproducible
// source.
func NewRegistry(seed *int64) *Registry {
	r := &Registry{}
	if seed != nil {
		s := uint64(*seed)
		r.rng = rand.New(rand.NewPCG(s, s))
	} else {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r.generators = r.defaultGenerators()
	return r
}

var firstNames = []string{"Ada", "Grace", "Alan", "Linus", "Margaret", "Dennis", "Barbara", "Ken", "Edsger", "Katherine"}
var lastNames = []string{"Lovelace", "Hopper", "Turing", "Torvalds", "Hamilton", "Ritchie", "Liskov", "Thompson", "Dijkstra", "Johnson"}
var streetNames = []string{"Main St", "Oak Ave", "Maple Dr", "Elm St", "Washington Blvd", "Park Rd", "2nd St", "Lakeview Dr"}
var cityNames = []string{"Springfield", "Riverside", "Franklin", "Greenville", "Fairview", "Salem", "Madison", "Georgetown"}
var stateAbbrs = []string{"CA", "TX", "NY", "FL", "WA", "IL", "PA", "OH", "GA", "NC"}
var stateNames = []string{"California", "Texas", "New York", "Florida", "Washington", "Illinois", "Pennsylvania", "Ohio", "Georgia", "North Carolina"}
var countryNames = []string{"United States", "Canada", "United Kingdom", "Germany", "France", "Japan", "Australia"}
var companyNames = []string{"Acme Corp", "Globex", "Initech", "Umbrella Corp", "Stark Industries", "Wayne Enterprises", "Hooli"}
var jobTitles = []string{"Software Engineer", "Data Analyst", "Product Manager", "Systems Administrator", "Accountant", "Auditor"}
var vehicleMakes = []string{"Toyota", "Honda", "Ford", "Chevrolet", "BMW", "Mercedes", "Audi", "Tesla"}
var vehicleModels = []string{"Sedan", "SUV", "Truck", "Coupe", "Hatchback", "Convertible", "Minivan"}
var emailDomains = []string{"example.com", "example.org", "example.net", "mail.test"}
var currencyCodes = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}
var words = []string{"catalog", "schema", "field", "record", "stream", "batch", "context", "lane", "facet", "corpus"}

func (r *Registry) choice(list []string) string { return list[r.rng.IntN(len(list))] }

func (r *Registry) defaultGenerators() map[string]func() string {
	return map[string]func() string{
		"person.first_name": func() string { return r.choice(firstNames) },
		"person.last_name":  func() string { return r.choice(lastNames) },
		"person.full_name":  func() string { return r.choice(firstNames) + " " + r.choice(lastNames) },
		"person.prefix":     func() string { return r.choice([]string{"Mr.", "Mrs.", "Ms.", "Dr."}) },
		"person.suffix":     func() string { return r.choice([]string{"Jr.", "Sr.", "II", "III"}) },

		"ssn": func() string {
			return fmt.Sprintf("%03d-%02d-%04d", r.rng.IntN(900)+100, r.rng.IntN(90)+10, r.rng.IntN(10000))
		},
		"ssn.masked": func() string { return fmt.Sprintf("XXX-XX-%04d", r.rng.IntN(10000)) },

		"email": func() string {
			return strings.ToLower(r.choice(firstNames)) + "." + strings.ToLower(r.choice(lastNames)) + "@" + r.choice(emailDomains)
		},
		"phone_number":   func() string { return r.phoneNumber() },
		"phone.mobile":   func() string { return r.phoneNumber() },
		"phone.landline": func() string { return r.phoneNumber() },

		"address.street":  func() string { return fmt.Sprintf("%d %s", r.rng.IntN(9000)+100, r.choice(streetNames)) },
		"address.street1": func() string { return fmt.Sprintf("%d %s", r.rng.IntN(9000)+100, r.choice(streetNames)) },
		"address.street2": func() string { return fmt.Sprintf("Apt %d", r.rng.IntN(400)+1) },
		"address.city":    func() string { return r.choice(cityNames) },
		"address.state":   func() string { return r.choice(stateNames) },
		"address.state_abbr": func() string {
			return r.choice(stateAbbrs)
		},
		"address.zipcode": func() string { return fmt.Sprintf("%05d", r.rng.IntN(100000)) },
		"address.zip":     func() string { return fmt.Sprintf("%05d", r.rng.IntN(100000)) },
		"address.country": func() string { return r.choice(countryNames) },
		"address.full": func() string {
			return fmt.Sprintf("%d %s, %s, %s", r.rng.IntN(9000)+100, r.choice(streetNames), r.choice(cityNames), r.choice(stateAbbrs))
		},

		"account.number":     func() string { return r.randomString(digitAlphabet, 12) },
		"routing.number":     func() string { return r.randomString(digitAlphabet, 9) },
		"credit_card.number": func() string { return r.randomString(digitAlphabet, 16) },
		"currency.code":      func() string { return r.choice(currencyCodes) },
		"currency.amount":    func() string { return fmt.Sprintf("%.2f", r.rng.Float64()*10000) },

		"date.past":       func() string { return r.dateOffset(-3650, 0) },
		"date.future":     func() string { return r.dateOffset(0, 3650) },
		"date.birth":      func() string { return r.dateOffset(-29200, -6570) },
		"date.today":      func() string { return time.Now().UTC().Format("2006-01-02") },
		"datetime.past":   func() string { return r.dateTimeOffset(-3650, 0) },
		"datetime.future": func() string { return r.dateTimeOffset(0, 3650) },

		"company.name":   func() string { return r.choice(companyNames) },
		"company.suffix": func() string { return r.choice([]string{"Inc.", "LLC", "Ltd.", "Corp."}) },
		"job.title":      func() string { return r.choice(jobTitles) },

		"url":      func() string { return "https://" + r.choice(emailDomains) + "/" + r.choice(words) },
		"domain":   func() string { return r.choice(emailDomains) },
		"username": func() string { return strings.ToLower(r.choice(firstNames)) + strconv.Itoa(r.rng.IntN(1000)) },
		"ipv4": func() string {
			return fmt.Sprintf("%d.%d.%d.%d", r.rng.IntN(256), r.rng.IntN(256), r.rng.IntN(256), r.rng.IntN(256))
		},

		"text.word": func() string { return r.choice(words) },
		"text.sentence": func() string {
			return capitalize(r.choice(words)) + " " + r.choice(words) + " " + r.choice(words) + "."
		},
		"text.paragraph": func() string { return r.sentenceJoin(4) },

		"uuid":              func() string { return r.uuidLike() },
		"code.alpha":        func() string { return r.randomString(upperAlphabet, 6) },
		"code.numeric":      func() string { return r.randomString(digitAlphabet, 8) },
		"code.alphanumeric": func() string { return r.randomString(upperAlphabet+digitAlphabet, 8) },

		"vehicle.vin":   func() string { return r.randomString("ABCDEFGHJKLMNPRSTUVWXYZ0123456789", 17) },
		"vehicle.make":  func() string { return r.choice(vehicleMakes) },
		"vehicle.model": func() string { return r.choice(vehicleModels) },
		"vehicle.year":  func() string { return strconv.Itoa(2010 + r.rng.IntN(16)) },

		"boolean": func() string { return r.choice([]string{"true", "false"}) },
		"yes_no":  func() string { return r.choice([]string{"Yes", "No"}) },
		"y_n":     func() string { return r.choice([]string{"Y", "N"}) },
	}
}

func (r *Registry) phoneNumber() string {
	return fmt.Sprintf("(%03d) %03d-%04d", r.rng.IntN(900)+100, r.rng.IntN(900)+100, r.rng.IntN(10000))
}

func (r *Registry) dateOffset(minDays, maxDays int) string {
	days := minDays + r.rng.IntN(maxDays-minDays+1)
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func (r *Registry) dateTimeOffset(minDays, maxDays int) string {
	days := minDays + r.rng.IntN(maxDays-minDays+1)
	return time.Now().UTC().AddDate(0, 0, days).Format(time.RFC3339)
}

func (r *Registry) sentenceJoin(n int) string {
	var parts []string
	for i := 0; i < n; i++ {
		parts = append(parts, capitalize(r.choice(words))+" "+r.choice(words)+".")
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (r *Registry) uuidLike() string {
	const hex = "0123456789abcdef"
	b := make([]byte, 32)
	for i := range b {
		b[i] = hex[r.rng.IntN(16)]
	}
	return fmt.Sprintf("%s-%s-4%s-%s-%s", b[0:8], b[8:12], b[13:16], b[16:20], b[20:32])
}

// Generate produces a value for a semantic-type token: a parameterized
// kind ("decimal(1,100,2)"), a pattern ("pattern:{######}"), a named kind
// ("email"), or — when nothing matches — a random short string.
func (r *Registry) Generate(semanticType string) string {
	if strings.Contains(semanticType, "(") {
		return r.generateParameterized(semanticType)
	}
	if rest, ok := strings.CutPrefix(semanticType, "pattern:"); ok {
		return r.generateFromPattern(rest)
	}
	if gen, ok := r.generators[semanticType]; ok {
		return gen()
	}
	return r.randomString("abcdefghijklmnopqrstuvwxyz", 12)
}

// HasSemanticType reports whether token names a recognized kind: a
// parameterized call, a pattern template, or a registered named kind.
func (r *Registry) HasSemanticType(semanticType string) bool {
	if strings.Contains(semanticType, "(") || strings.HasPrefix(semanticType, "pattern:") {
		return true
	}
	_, ok := r.generators[semanticType]
	return ok
}

func (r *Registry) generateParameterized(semanticType string) string {
	open := strings.IndexByte(semanticType, '(')
	if open < 0 || !strings.HasSuffix(semanticType, ")") {
		return r.randomString("abcdefghijklmnopqrstuvwxyz", 12)
	}
	name := semanticType[:open]
	argsStr := semanticType[open+1 : len(semanticType)-1]
	var args []string
	if strings.TrimSpace(argsStr) != "" {
		for _, a := range strings.Split(argsStr, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}

	switch name {
	case "decimal":
		minVal, maxVal, decimals := 0.0, 10000.0, 2
		if len(args) > 0 {
			minVal = parseFloat(args[0], minVal)
		}
		if len(args) > 1 {
			maxVal = parseFloat(args[1], maxVal)
		}
		if len(args) > 2 {
			decimals = parseInt(args[2], decimals)
		}
		value := minVal + r.rng.Float64()*(maxVal-minVal)
		return strconv.FormatFloat(value, 'f', decimals, 64)

	case "integer":
		minVal, maxVal := 0, 1000
		if len(args) > 0 {
			minVal = parseInt(args[0], minVal)
		}
		if len(args) > 1 {
			maxVal = parseInt(args[1], maxVal)
		}
		if maxVal < minVal {
			maxVal = minVal
		}
		return strconv.Itoa(minVal + r.rng.IntN(maxVal-minVal+1))

	case "choice":
		if len(args) == 0 {
			return ""
		}
		return args[r.rng.IntN(len(args))]

	case "date":
		minDays, maxDays := -365, 365
		if len(args) > 0 {
			minDays = parseInt(args[0], minDays)
		}
		if len(args) > 1 {
			maxDays = parseInt(args[1], maxDays)
		}
		if maxDays < minDays {
			maxDays = minDays
		}
		return r.dateOffset(minDays, maxDays)

	case "year":
		minYear, maxYear := 2000, 2025
		if len(args) > 0 {
			minYear = parseInt(args[0], minYear)
		}
		if len(args) > 1 {
			maxYear = parseInt(args[1], maxYear)
		}
		if maxYear < minYear {
			maxYear = minYear
		}
		return strconv.Itoa(minYear + r.rng.IntN(maxYear-minYear+1))

	case "string":
		length := 10
		switch len(args) {
		case 1:
			length = parseInt(args[0], length)
		case 2:
			minLen := parseInt(args[0], 5)
			maxLen := parseInt(args[1], 20)
			if maxLen < minLen {
				maxLen = minLen
			}
			length = minLen + r.rng.IntN(maxLen-minLen+1)
		}
		if length < 0 {
			length = 0
		}
		return r.randomString("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", length)

	default:
		return r.randomString("abcdefghijklmnopqrstuvwxyz", 12)
	}
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
