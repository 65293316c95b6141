package prompt

const assistantPersona = `You are a helpful farming assistant with expertise in agriculture in %s. You provide practical, actionable advice for farmers.`

const previousConversationBlock = `Previous conversation context:
%s`

const assistantGuidelines = `Guidelines:
1. Be conversational and remember what was discussed before
2. Reference previous topics when relevant
3. Provide detailed, practical advice
4. Ask clarifying questions when needed
5. Suggest related topics the farmer might find helpful
6. Always end your response with 2-3 suggested follow-up questions wrapped in a "FOLLOW_UP_SUGGESTIONS:" section

Format your follow-up suggestions exactly like this at the end:
FOLLOW_UP_SUGGESTIONS:
1. [Relevant follow-up question 1]
2. [Relevant follow-up question 2]
3. [Relevant follow-up question 3]`

const farmPersona = `You are an expert agricultural analyst specializing in farming conditions in %s. Provide detailed, structured, and practical advice based on the farm data provided.`

const soilPersona = `You are an expert soil scientist specializing in the agricultural soils of %s. Provide detailed, structured, and practical advice based on the soil data provided.`

const cropPersona = `You are an expert agricultural analyst specializing in the crops and plants of %s. Provide detailed, structured, and practical information based on the attached crop image.`

const englishDirective = `Respond in clear English.`

const translatedDirective = `Respond in %[1]s. Where a technical term has no direct equivalent in %[1]s, also give the English term in parentheses.`

const farmTemplate = `Analyze the following farm data and provide detailed recommendations:

Farm Size: %s hectares
Soil Type: %s
Humidity: %s%%
Moisture: %s%%
Temperature: %s°C
Location: %s
Additional Information: %s

Please provide a comprehensive analysis including:
1. Suitable crops for this environment
2. Recommended farming techniques
3. Potential challenges and solutions
4. Irrigation recommendations
5. Fertilizer recommendations
6. Seasonal considerations`

const soilTemplate = `Analyze the following soil data and provide detailed recommendations:

Soil Type: %s
pH Level: %s
Organic Matter: %s%%
Nitrogen Content: %s mg/kg
Phosphorus Content: %s mg/kg
Potassium Content: %s mg/kg
Location: %s
Additional Information: %s

Please provide a comprehensive analysis including:
1. Soil quality assessment
2. Suitable crops for this soil type
3. Fertilizer recommendations
4. Soil improvement strategies
5. Potential issues and solutions
6. Long-term soil management advice`

// Crop templates, keyed by analysis angle.
var cropTemplates = map[AnalysisType]string{
	AnalysisGeneral: `Analyze the attached crop/plant image and provide detailed information.

Please provide a comprehensive analysis including:
1. Identification of the crop/plant
2. Nutritional value
3. Growing conditions and methods
4. Potential diseases and pest control
5. Harvesting and storage recommendations
6. Market value and economic importance in {region}`,

	AnalysisDisease: `Analyze the attached crop/plant image and focus on disease detection.

Please provide a comprehensive analysis including:
1. Identification of any diseases or pests present
2. Severity assessment
3. Potential causes
4. Treatment recommendations
5. Preventive measures
6. Long-term management strategies`,

	AnalysisIdentification: `Analyze the attached crop/plant image and focus on identification and anatomy.

Please provide a comprehensive analysis including:
1. Detailed identification of the plant species and variety
2. Anatomical features and structure
3. Growth stage assessment
4. Taxonomic classification
5. Related species and varieties
6. Historical and cultural significance in {region}`,

	AnalysisPlanting: `Analyze the attached crop/plant image and focus on planting methods and care.

Please provide a comprehensive analysis including:
1. Optimal planting methods for this crop
2. Soil preparation requirements
3. Spacing and depth recommendations
4. Watering and fertilization needs
5. Climate and seasonal considerations
6. Common challenges and solutions during planting`,

	AnalysisHarvest: `Analyze the attached crop/plant image and focus on harvest timing and methods.

Please provide a comprehensive analysis including:
1. Signs of harvest readiness
2. Optimal timing for maximum yield and quality
3. Recommended harvesting techniques
4. Post-harvest handling and storage
5. Potential issues during harvest
6. Value addition opportunities`,

	AnalysisNutrition: `Analyze the attached crop/plant image and focus on nutritional value and uses.

Please provide a comprehensive analysis including:
1. Nutritional composition and benefits
2. Culinary uses and preparation methods
3. Traditional and modern recipes from {region}
4. Medicinal properties and traditional uses
5. Processing and preservation methods
6. Market value and economic importance`,
}
