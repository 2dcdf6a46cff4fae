package services

import (
	"testing"

	"agentlists/contexts/list-distribution/list-service/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMapsHeaderSpellings(t *testing.T) {
	cases := []struct {
		name string
		row  entities.RawRow
		want entities.NormalizedRecord
	}{
		{
			name: "canonical camel case",
			row:  entities.RawRow{"firstName": "Ada", "phone": "555-0101", "notes": "vip"},
			want: entities.NormalizedRecord{FirstName: "Ada", Phone: "555-0101", Notes: "vip"},
		},
		{
			name: "snake case and mobile",
			row:  entities.RawRow{"first_name": "Grace", "mobile": "+1 555 0102", "comments": "call later"},
			want: entities.NormalizedRecord{FirstName: "Grace", Phone: "+1 555 0102", Notes: "call later"},
		},
		{
			name: "upper case",
			row:  entities.RawRow{"FIRSTNAME": "Linus", "PHONE": "5550103", "NOTES": "x"},
			want: entities.NormalizedRecord{FirstName: "Linus", Phone: "5550103", Notes: "x"},
		},
		{
			name: "phoneNumber and Note",
			row:  entities.RawRow{"FirstName": "Ken", "phoneNumber": "5550104", "Note": "n"},
			want: entities.NormalizedRecord{FirstName: "Ken", Phone: "5550104", Notes: "n"},
		},
		{
			name: "no matching headers",
			row:  entities.RawRow{"name": "Nobody", "tel": "1"},
			want: entities.NormalizedRecord{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.row))
		})
	}
}

func TestNormalizePhoneBeatsMobileRegardlessOfInsertionOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		row := entities.RawRow{}
		if i%2 == 0 {
			row["mobile"] = "111"
			row["Phone"] = "222"
		} else {
			row["Phone"] = "222"
			row["mobile"] = "111"
		}
		row["firstname"] = "Ada"
		assert.Equal(t, "222", Normalize(row).Phone)
	}
}

func TestNormalizePresentEmptyKeyStillWins(t *testing.T) {
	record := Normalize(entities.RawRow{"firstname": "", "FirstName": "Shadowed", "phone": "1"})
	assert.Equal(t, "", record.FirstName)
}

func TestNormalizeAllKeepsOrder(t *testing.T) {
	records := NormalizeAll([]entities.RawRow{
		{"firstName": "a", "phone": "1"},
		{"firstName": "b", "phone": "2"},
		{"firstName": "c", "phone": "3"},
	})
	assert.Len(t, records, 3)
	assert.Equal(t, "a", records[0].FirstName)
	assert.Equal(t, "b", records[1].FirstName)
	assert.Equal(t, "c", records[2].FirstName)
	assert.Equal(t, "", records[2].Notes)
}
