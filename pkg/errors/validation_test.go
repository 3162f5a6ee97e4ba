package errors

import (
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "alpha", false},
		{"valid with dash", "team-alpha", false},
		{"valid with space", "Team Alpha", false},
		{"valid with dot", "svc.auth", false},
		{"valid unicode", "équipe", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/diagram.svg", false},
		{"valid simple", "diagram.png", false},
		{"valid absolute", "/tmp/diagram.svg", false},

		{"empty", "", true},
		{"traversal", "foo/../bar.svg", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means no override", "", false},
		{"short form", "#fff", false},
		{"long form", "#16213e", false},
		{"with alpha", "#16213e80", false},
		{"uppercase", "#FFAA00", false},

		{"missing hash", "16213e", true},
		{"wrong length", "#ffff", true},
		{"non-hex", "#zzzzzz", true},
		{"named color", "red", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEnumFields(t *testing.T) {
	t.Run("distribution", func(t *testing.T) {
		for _, ok := range []string{"uniform", "random", "gaussian"} {
			if err := ValidateDistribution(ok); err != nil {
				t.Errorf("ValidateDistribution(%q) = %v, want nil", ok, err)
			}
		}
		if err := ValidateDistribution("poisson"); err == nil {
			t.Error("ValidateDistribution(poisson) = nil, want error")
		}
	})

	t.Run("shape type", func(t *testing.T) {
		for _, ok := range []string{"circle", "square", "diamond"} {
			if err := ValidateShapeType(ok); err != nil {
				t.Errorf("ValidateShapeType(%q) = %v, want nil", ok, err)
			}
		}
		if err := ValidateShapeType("triangle"); err == nil {
			t.Error("ValidateShapeType(triangle) = nil, want error")
		}
	})

	t.Run("width anchor", func(t *testing.T) {
		for _, ok := range []string{"start", "middle", "end", "custom"} {
			if err := ValidateWidthAnchor(ok); err != nil {
				t.Errorf("ValidateWidthAnchor(%q) = %v, want nil", ok, err)
			}
		}
		if err := ValidateWidthAnchor("center"); err == nil {
			t.Error("ValidateWidthAnchor(center) = nil, want error")
		}
	})
}

func TestValidateUnitInterval(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"middle", 0.5, false},
		{"negative", -0.1, true},
		{"above one", 1.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnitInterval("opacity", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnitInterval(%g) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
