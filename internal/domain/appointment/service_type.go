package appointment

type ServiceType string

const (
	ServiceFiller           ServiceType = "filler"
	ServiceBotox            ServiceType = "botox"
	ServiceLipBlush         ServiceType = "lip_blush"
	ServiceSkinCare         ServiceType = "skin_care"
	ServiceLaserHairRemoval ServiceType = "laser_hair_removal"
	ServiceChemicalPeel     ServiceType = "chemical_peel"
	ServicePRP              ServiceType = "prp"
	ServiceMesotherapy      ServiceType = "mesotherapy"
	ServiceDermapen         ServiceType = "dermapen"
	ServiceOther            ServiceType = "other"
)

var ServiceTypes = []ServiceType{
	ServiceFiller,
	ServiceBotox,
	ServiceLipBlush,
	ServiceSkinCare,
	ServiceLaserHairRemoval,
	ServiceChemicalPeel,
	ServicePRP,
	ServiceMesotherapy,
	ServiceDermapen,
	ServiceOther,
}

func (s ServiceType) Valid() bool {
	for _, st := range ServiceTypes {
		if st == s {
			return true
		}
	}
	return false
}
