package safety

import (
	"strings"
	"testing"
)

func TestCheckTrustedDomains(t *testing.T) {
	urls := []string{
		"https://www.amazon.in/dp/B09XS7JWHH",
		"https://www.flipkart.com/phone/p/itm123",
		"https://www.vijaysales.com/headphones-12345",
		"https://m.snapdeal.com/product/x",
	}
	for _, u := range urls {
		v := Check(u)
		if !v.Trusted {
			t.Errorf("%s: expected trusted", u)
		}
		if !v.Safe {
			t.Errorf("%s: expected safe", u)
		}
		if v.Risk != RiskLow {
			t.Errorf("%s: expected low risk, got %s", u, v.Risk)
		}
	}
}

func TestCheckSuspiciousTLD(t *testing.T) {
	v := Check("https://megadeals.xyz/offer")
	if v.Safe {
		t.Error("expected unsafe")
	}
	if v.Risk != RiskHigh {
		t.Errorf("expected high risk, got %s", v.Risk)
	}
}

func TestCheckImpersonation(t *testing.T) {
	v := Check("https://amazon-deals-india.shop/product")
	if v.Safe {
		t.Error("an impersonating domain must not be safe")
	}
	if v.Risk != RiskHigh {
		t.Errorf("expected high risk, got %s", v.Risk)
	}
	found := false
	for _, w := range v.Warnings {
		if strings.Contains(w, "impersonates") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an impersonation warning, got %v", v.Warnings)
	}
}

func TestCheckIPLiteral(t *testing.T) {
	v := Check("http://203.0.113.7/shop")
	if v.Risk != RiskHigh || v.Safe {
		t.Errorf("IP hosts are high risk, got %s safe=%v", v.Risk, v.Safe)
	}
}

func TestCheckPlainHTTP(t *testing.T) {
	v := Check("http://littleshop.example.com/item")
	if v.Risk != RiskMedium {
		t.Errorf("expected medium risk for plain http, got %s", v.Risk)
	}
}

func TestCheckBadScheme(t *testing.T) {
	v := Check("ftp://files.example.com/catalog")
	if v.Risk != RiskHigh || v.Safe {
		t.Errorf("expected high risk, got %s safe=%v", v.Risk, v.Safe)
	}
}

func TestCheckUnparseable(t *testing.T) {
	v := Check("::::not a url")
	if v.Risk != RiskHigh || v.Safe {
		t.Errorf("expected high risk, got %s safe=%v", v.Risk, v.Safe)
	}
}

func TestCheckCleanUnknownDomain(t *testing.T) {
	v := Check("https://wonderchef.example/product/pan")
	if !v.Safe {
		t.Errorf("a clean unknown https domain should pass, got %s %v", v.Risk, v.Warnings)
	}
}

func TestCheckDashesAndDigits(t *testing.T) {
	v := Check("https://best-cheap-deal-store123456.example/sale")
	if v.Risk != RiskMedium {
		t.Errorf("expected medium risk, got %s %v", v.Risk, v.Warnings)
	}
	if len(v.Warnings) != 2 {
		t.Errorf("expected two warnings, got %v", v.Warnings)
	}

	// Three medium findings together push the verdict to unsafe.
	v = Check("https://best-cheap-mega-deal-store-offers123456.shopping-portal.example/sale")
	if v.Safe {
		t.Errorf("accumulated medium findings should fail, got %s %v", v.Risk, v.Warnings)
	}
}
